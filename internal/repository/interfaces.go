package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sharp-picks/internal/models"
)

// EventRepository defines persistence operations for events
type EventRepository interface {
	Upsert(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Event, error)
	GetUpcoming(ctx context.Context, sport models.Sport, within time.Duration) ([]*models.Event, error)
	GetUnsettledFinals(ctx context.Context, limit int) ([]*models.Event, error)
	UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int, status models.EventStatus) error
}

// PredictionRepository defines persistence operations for predictions
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Prediction, error)
	GetPending(ctx context.Context, limit int) ([]*models.Prediction, error)
	CountPending(ctx context.Context) (int, error)
	UpdateOutcome(ctx context.Context, id uuid.UUID, outcome models.Outcome, settledAt time.Time) error
}
