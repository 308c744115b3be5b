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

// settlementBatchLimit caps how many final events one sweep picks up
const settlementBatchLimit = 500

// SettlementService grades pending predictions against final scores.
// Scores arrive two ways: the periodic sweep polls the score provider
// for events that went final, and the live stream pushes updates as
// games end.
type SettlementService struct {
	eventRepo      repository.EventRepository
	predictionRepo repository.PredictionRepository
	scores         datasource.ScoreProvider
	resolver       *engine.Resolver
	pickLogger     *logger.PickLogger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	eventRepo repository.EventRepository,
	predictionRepo repository.PredictionRepository,
	scores datasource.ScoreProvider,
	resolver *engine.Resolver,
	pickLogger *logger.PickLogger,
) *SettlementService {
	return &SettlementService{
		eventRepo:      eventRepo,
		predictionRepo: predictionRepo,
		scores:         scores,
		resolver:       resolver,
		pickLogger:     pickLogger,
	}
}

// SweepResult summarizes one settlement sweep
type SweepResult struct {
	EventsProcessed int
	Settled         int
	Failed          int
}

// Sweep settles all pending predictions whose events have gone final.
// Predictions that cannot be graded stay pending and are reported, not
// coerced into an outcome.
func (s *SettlementService) Sweep(ctx context.Context) (*SweepResult, error) {
	startTime := time.Now()
	result := &SweepResult{}

	events, err := s.eventRepo.GetUnsettledFinals(ctx, settlementBatchLimit)
	if err != nil {
		return result, fmt.Errorf("fetch unsettled finals: %w", err)
	}

	for _, event := range events {
		settled, failed, err := s.SettleEvent(ctx, event)
		if err != nil {
			result.Failed++
			continue
		}
		result.EventsProcessed++
		result.Settled += settled
		result.Failed += failed
	}

	if count, err := s.predictionRepo.CountPending(ctx); err == nil {
		metrics.UpdatePendingPredictions(float64(count))
	}
	metrics.RecordSettlementSweepDuration(time.Since(startTime).Seconds())

	return result, nil
}

// SettleEvent grades every pending prediction on one final event.
// Returns counts of settled and failed predictions.
func (s *SettlementService) SettleEvent(ctx context.Context, event *models.Event) (settled, failed int, err error) {
	homeScore, awayScore, ok := event.FinalScore()
	if !ok {
		return 0, 0, fmt.Errorf("event %s is not final: %w", event.ExternalID, models.ErrScoresMissing)
	}

	predictions, err := s.predictionRepo.GetByEvent(ctx, event.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch predictions for event %s: %w", event.ExternalID, err)
	}

	for _, prediction := range predictions {
		if prediction.Settled() {
			continue
		}

		outcome, resolveErr := s.resolver.Resolve(prediction, homeScore, awayScore)
		if resolveErr != nil {
			failed++
			metrics.RecordSettlementFailure()
			s.pickLogger.LogSettlementFailure(
				prediction.ID.String(), event.ID.String(),
				string(prediction.Market), prediction.Value, resolveErr,
			)
			continue
		}
		if !outcome.Terminal() {
			continue
		}

		settledAt := time.Now().UTC()
		if err := s.predictionRepo.UpdateOutcome(ctx, prediction.ID, outcome, settledAt); err != nil {
			failed++
			continue
		}

		settled++
		metrics.RecordPredictionSettled(string(prediction.Market), string(outcome))
		s.pickLogger.LogSettlement(
			prediction.ID.String(), event.ID.String(),
			string(prediction.Market), prediction.Value, string(outcome),
			homeScore, awayScore, settledAt,
		)
	}

	return settled, failed, nil
}

// PollScores asks the score provider for results of events that still
// carry pending predictions but have not gone final in storage. This
// covers deployments without the live stream.
func (s *SettlementService) PollScores(ctx context.Context) error {
	pending, err := s.predictionRepo.GetPending(ctx, settlementBatchLimit)
	if err != nil {
		return fmt.Errorf("fetch pending predictions: %w", err)
	}

	seen := make(map[string]bool)
	for _, prediction := range pending {
		event, err := s.eventRepo.GetByID(ctx, prediction.EventID)
		if err != nil || seen[event.ExternalID] {
			continue
		}
		seen[event.ExternalID] = true

		if event.Status == models.EventStatusFinal || event.Status == models.EventStatusScheduled && event.TimeToStart() > 0 {
			continue
		}

		update, err := s.scores.GetScore(ctx, event.Sport, event.ExternalID)
		if err != nil || !update.Final {
			continue
		}

		if err := s.eventRepo.UpdateScore(ctx, event.ID, update.HomeScore, update.AwayScore, models.EventStatusFinal); err != nil {
			continue
		}
	}

	return nil
}

// HandleScoreUpdate processes one pushed score update from the live
// stream. Non-final updates only refresh the stored score; final updates
// also settle the event's pending predictions.
func (s *SettlementService) HandleScoreUpdate(ctx context.Context, update datasource.ScoreUpdate) error {
	event, err := s.eventRepo.GetByExternalID(ctx, update.ExternalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Update for a game we never ingested; nothing to settle
			return nil
		}
		return fmt.Errorf("lookup event %s: %w", update.ExternalID, err)
	}

	status := models.EventStatusInProgress
	if update.Final {
		status = models.EventStatusFinal
	}

	if err := s.eventRepo.UpdateScore(ctx, event.ID, update.HomeScore, update.AwayScore, status); err != nil {
		return fmt.Errorf("record score for event %s: %w", update.ExternalID, err)
	}

	if !update.Final {
		return nil
	}

	event.HomeScore = &update.HomeScore
	event.AwayScore = &update.AwayScore
	event.Status = models.EventStatusFinal

	_, _, err = s.SettleEvent(ctx, event)
	return err
}
