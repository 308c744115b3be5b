package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const errScanPrediction = "failed to scan prediction: %w"

const predictionColumns = `id, event_id, market, value, raw_confidence, confidence,
	       grade, reasoning, outcome, settled_at, created_at, updated_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a new prediction
func (r *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, event_id, market, value, raw_confidence, confidence,
		                         grade, reasoning, outcome, settled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.EventID, prediction.Market, prediction.Value,
		prediction.RawConfidence, prediction.Confidence, prediction.Grade,
		prediction.Reasoning, prediction.Outcome, prediction.SettledAt,
		prediction.CreatedAt, prediction.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	prediction, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// GetByEvent retrieves all predictions issued against an event
func (r *PostgresPredictionRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE event_id = $1
		ORDER BY market ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions for event: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// GetPending retrieves unsettled predictions, oldest first
func (r *PostgresPredictionRepository) GetPending(ctx context.Context, limit int) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE outcome = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// CountPending returns the number of unsettled predictions
func (r *PostgresPredictionRepository) CountPending(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM predictions WHERE outcome = 'PENDING'`

	var count int
	if err := r.db.GetPool().QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending predictions: %w", err)
	}

	return count, nil
}

// UpdateOutcome records the settlement result for a prediction.
// Only pending predictions transition; a settled row never flips.
func (r *PostgresPredictionRepository) UpdateOutcome(ctx context.Context, id uuid.UUID, outcome models.Outcome, settledAt time.Time) error {
	query := `
		UPDATE predictions SET
			outcome = $2, settled_at = $3, updated_at = NOW()
		WHERE id = $1 AND outcome = 'PENDING'
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, outcome, settledAt)
	if err != nil {
		return fmt.Errorf("failed to update prediction outcome: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	prediction := &models.Prediction{}
	err := row.Scan(
		&prediction.ID, &prediction.EventID, &prediction.Market, &prediction.Value,
		&prediction.RawConfidence, &prediction.Confidence, &prediction.Grade,
		&prediction.Reasoning, &prediction.Outcome, &prediction.SettledAt,
		&prediction.CreatedAt, &prediction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return prediction, nil
}

func collectPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, prediction)
	}
	return predictions, rows.Err()
}
