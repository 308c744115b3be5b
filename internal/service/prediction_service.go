package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/sharp-picks/internal/datasource"
	"github.com/yourusername/sharp-picks/internal/engine"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/repository"
)

// PredictionConfig holds the scoring run parameters
type PredictionConfig struct {
	Sports           []models.Sport
	Lookahead        time.Duration
	RecentScoreGames int
}

// PredictionService runs the scoring pipeline over upcoming events: it
// gathers the matchup inputs from the stats provider, hands them to the
// ensemble, and persists whatever predictions come back.
type PredictionService struct {
	eventRepo      repository.EventRepository
	predictionRepo repository.PredictionRepository
	stats          datasource.StatsProvider
	combiner       *engine.Combiner
	pickLogger     *logger.PickLogger
	cfg            PredictionConfig
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	eventRepo repository.EventRepository,
	predictionRepo repository.PredictionRepository,
	stats datasource.StatsProvider,
	combiner *engine.Combiner,
	pickLogger *logger.PickLogger,
	cfg PredictionConfig,
) *PredictionService {
	return &PredictionService{
		eventRepo:      eventRepo,
		predictionRepo: predictionRepo,
		stats:          stats,
		combiner:       combiner,
		pickLogger:     pickLogger,
		cfg:            cfg,
	}
}

// RunResult summarizes one scoring run
type RunResult struct {
	EventsScored      int
	PredictionsIssued int
	Errors            int
}

// Run scores every upcoming event inside the lookahead window. Individual
// event failures are counted and skipped so one bad matchup does not sink
// the whole run.
func (s *PredictionService) Run(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()
	result := &RunResult{}

	for _, sport := range s.cfg.Sports {
		events, err := s.eventRepo.GetUpcoming(ctx, sport, s.cfg.Lookahead)
		if err != nil {
			return result, fmt.Errorf("fetch upcoming %s events: %w", sport, err)
		}

		for _, event := range events {
			issued, err := s.ScoreEvent(ctx, event)
			if err != nil {
				result.Errors++
				continue
			}
			result.EventsScored++
			result.PredictionsIssued += issued
		}
	}

	metrics.RecordScoringDuration(time.Since(startTime).Seconds())
	metrics.LastPredictionRunTimestamp.SetToCurrentTime()

	return result, nil
}

// ScoreEvent builds the matchup input for one event and persists the
// ensemble's predictions. Returns the number of predictions issued.
func (s *PredictionService) ScoreEvent(ctx context.Context, event *models.Event) (int, error) {
	in, err := s.buildMatchupInput(ctx, event)
	if err != nil {
		return 0, err
	}

	predictions, err := s.combiner.Predict(*in)
	if err != nil {
		return 0, fmt.Errorf("score event %s: %w", event.ExternalID, err)
	}

	issuedByMarket := make(map[models.Market]bool, len(predictions))

	issued := 0
	for _, prediction := range predictions {
		if err := s.predictionRepo.Create(ctx, prediction); err != nil {
			// Re-running a day is expected; the (event, market) pair is unique
			if errors.Is(err, models.ErrDuplicateKey) {
				continue
			}
			return issued, fmt.Errorf("persist prediction for event %s: %w", event.ExternalID, err)
		}

		issued++
		issuedByMarket[prediction.Market] = true
		metrics.RecordPredictionIssued(string(event.Sport), string(prediction.Market), prediction.Confidence)
		s.pickLogger.LogPredictionIssued(
			prediction.ID.String(), event.ID.String(),
			string(prediction.Market), prediction.Value, prediction.Grade,
			prediction.RawConfidence, prediction.Confidence, "",
		)
	}

	for _, market := range engine.Markets {
		if !issuedByMarket[market] {
			metrics.RecordMarketSkipped(string(event.Sport), string(market))
			s.pickLogger.LogMarketSkipped(event.ID.String(), string(market), "no accepted candidate")
		}
	}

	return issued, nil
}

func (s *PredictionService) buildMatchupInput(ctx context.Context, event *models.Event) (*engine.MatchupInput, error) {
	// A team the provider has no record for scores on neutral factors;
	// auth and network failures still abort the event
	homeStats, err := s.stats.GetTeamStats(ctx, event.Sport, event.HomeTeamID)
	if err != nil && !isStatsNotFound(err) {
		return nil, fmt.Errorf("fetch home stats for %s: %w", event.HomeTeamID, err)
	}

	awayStats, err := s.stats.GetTeamStats(ctx, event.Sport, event.AwayTeamID)
	if err != nil && !isStatsNotFound(err) {
		return nil, fmt.Errorf("fetch away stats for %s: %w", event.AwayTeamID, err)
	}

	// Head-to-head and recent scores are refinements; scoring proceeds
	// without them on a neutral footing
	headToHead, err := s.stats.GetHeadToHead(ctx, event.Sport, event.HomeTeamID, event.AwayTeamID)
	if err != nil {
		headToHead = nil
	}

	recentScores, err := s.stats.GetRecentCombinedScores(ctx, event.Sport, event.HomeTeamID, event.AwayTeamID, s.cfg.RecentScoreGames)
	if err != nil {
		recentScores = nil
	}

	return &engine.MatchupInput{
		Event:                event,
		HomeStats:            homeStats,
		AwayStats:            awayStats,
		HeadToHead:           headToHead,
		RecentCombinedScores: recentScores,
	}, nil
}

func isStatsNotFound(err error) bool {
	var provErr datasource.ProviderError
	return errors.As(err, &provErr) && provErr.Code == datasource.ErrCodeNotFound
}
