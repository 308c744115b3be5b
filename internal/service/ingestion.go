package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sharp-picks/internal/datasource"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/repository"
)

// maxPlausibleVig bounds the bookmaker margin on a two-way market.
// Major books run 2-7%; anything negative (an arbitrage pair) or far
// above that means the feed served stale or garbled prices.
var maxPlausibleVig = decimal.NewFromFloat(0.10)

// IngestionService pulls the upcoming schedule with posted lines from the
// odds provider and upserts it into the events table.
type IngestionService struct {
	odds       datasource.OddsProvider
	eventRepo  repository.EventRepository
	pickLogger *logger.PickLogger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	odds datasource.OddsProvider,
	eventRepo repository.EventRepository,
	pickLogger *logger.PickLogger,
) *IngestionService {
	return &IngestionService{
		odds:       odds,
		eventRepo:  eventRepo,
		pickLogger: pickLogger,
	}
}

// IngestUpcoming fetches and stores all events starting within the window.
// Re-ingesting a known event refreshes its lines, start time and status.
func (s *IngestionService) IngestUpcoming(ctx context.Context, sports []models.Sport, window time.Duration) error {
	startTime := time.Now()
	from := time.Now()
	to := from.Add(window)

	var fetched, upserted int
	var firstErr error

	for _, sport := range sports {
		events, err := s.odds.GetUpcomingEvents(ctx, sport, from, to)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch %s schedule: %w", sport, err)
			}
			continue
		}
		fetched += len(events)

		for _, event := range events {
			s.dropSuspectLines(event)
			if err := s.eventRepo.Upsert(ctx, event); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("upsert event %s: %w", event.ExternalID, err)
				}
				continue
			}
			upserted++
		}

		metrics.UpdateUpcomingEvents(string(sport), float64(len(events)))
	}

	metrics.RecordEventsIngested(s.odds.Name(), upserted)
	s.pickLogger.LogIngestionRun(s.odds.Name(), fetched, upserted, float64(time.Since(startTime).Milliseconds()))

	return firstErr
}

// dropSuspectLines strips price pairs whose implied margin is outside
// the plausible range, so the scoring run never picks against them.
func (s *IngestionService) dropSuspectLines(event *models.Event) {
	if event.Lines == nil || event.Lines.Moneyline == nil {
		return
	}
	ml := event.Lines.Moneyline
	vig := models.Vig(ml.HomePrice, ml.AwayPrice)
	if vig.IsNegative() || vig.GreaterThan(maxPlausibleVig) {
		v, _ := vig.Float64()
		s.pickLogger.LogSuspectLines(event.ExternalID, string(models.MarketMoneyline), v)
		event.Lines.Moneyline = nil
	}
}
