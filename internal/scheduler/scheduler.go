package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/service"
	"github.com/yourusername/sharp-picks/internal/tracing"
)

// Scheduler drives the daily picks pipeline: schedule ingestion and
// scoring on the predictions cron, settlement sweeps on the settlement
// cron, and score polling on a fixed interval.
type Scheduler struct {
	cron          *cron.Cron
	ingestionSvc  *service.IngestionService
	predictionSvc *service.PredictionService
	settlementSvc *service.SettlementService
	logger        logrus.FieldLogger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(
	ingestionSvc *service.IngestionService,
	predictionSvc *service.PredictionService,
	settlementSvc *service.SettlementService,
	logger logrus.FieldLogger,
) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc:  ingestionSvc,
		predictionSvc: predictionSvc,
		settlementSvc: settlementSvc,
		logger:        logger,
		jobIDs:        make([]cron.EntryID, 0),
	}
}

// SchedulePredictionRun schedules the daily ingest-then-score job
func (s *Scheduler) SchedulePredictionRun(cronExpression string, sports []models.Sport, window time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		ctx, seg := tracing.StartSegment(ctx, "prediction-run")

		s.logger.Info("Starting scheduled prediction run")

		if err := s.ingestionSvc.IngestUpcoming(ctx, sports, window); err != nil {
			s.logger.WithError(err).Warn("Schedule ingestion reported errors")
		}

		result, err := s.predictionSvc.Run(ctx)
		seg.Close(err)
		if err != nil {
			s.logger.WithError(err).Error("Prediction run failed")
			return
		}

		s.logger.WithFields(logrus.Fields{
			"events_scored":      result.EventsScored,
			"predictions_issued": result.PredictionsIssued,
			"errors":             result.Errors,
		}).Info("Prediction run completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add prediction job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled prediction run")

	return nil
}

// ScheduleSettlementSweep schedules the periodic settlement job
func (s *Scheduler) ScheduleSettlementSweep(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		ctx, seg := tracing.StartSegment(ctx, "settlement-sweep")

		result, err := s.settlementSvc.Sweep(ctx)
		seg.Close(err)
		if err != nil {
			s.logger.WithError(err).Error("Settlement sweep failed")
			return
		}

		s.logger.WithFields(logrus.Fields{
			"events_processed": result.EventsProcessed,
			"settled":          result.Settled,
			"failed":           result.Failed,
		}).Info("Settlement sweep completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add settlement job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled settlement sweep")

	return nil
}

// ScheduleScorePolling schedules score polling for started events
func (s *Scheduler) ScheduleScorePolling(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		if err := s.settlementSvc.PollScores(ctx); err != nil {
			s.logger.WithError(err).Warn("Score polling failed")
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add score polling job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled score polling")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
