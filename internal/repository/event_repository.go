package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/models"
)

const errScanEvent = "failed to scan event: %w"

const eventColumns = `id, external_id, sport, home_team_id, away_team_id, home_team_name,
	       away_team_name, scheduled_start, status, home_score, away_score, lines,
	       created_at, updated_at`

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *database.DB
}

// NewPostgresEventRepository creates a new event repository
func NewPostgresEventRepository(db *database.DB) EventRepository {
	return &PostgresEventRepository{db: db}
}

// Upsert inserts an event or refreshes its mutable fields when the
// external identifier is already known.
func (r *PostgresEventRepository) Upsert(ctx context.Context, event *models.Event) error {
	lines, err := marshalLines(event.Lines)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO events (id, external_id, sport, home_team_id, away_team_id, home_team_name,
		                    away_team_name, scheduled_start, status, home_score, away_score, lines)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (external_id) DO UPDATE SET
			scheduled_start = EXCLUDED.scheduled_start,
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			lines = EXCLUDED.lines,
			updated_at = NOW()
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		event.ID, event.ExternalID, event.Sport, event.HomeTeamID, event.AwayTeamID,
		event.HomeTeamName, event.AwayTeamName, event.ScheduledStart, event.Status,
		event.HomeScore, event.AwayScore, lines,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// GetByExternalID retrieves an event by its provider identifier
func (r *PostgresEventRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE external_id = $1`

	event, err := scanEvent(r.db.GetPool().QueryRow(ctx, query, externalID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by external id: %w", err)
	}

	return event, nil
}

// GetUpcoming retrieves scheduled events starting within the window
func (r *PostgresEventRepository) GetUpcoming(ctx context.Context, sport models.Sport, within time.Duration) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE sport = $1 AND status = 'SCHEDULED'
		  AND scheduled_start > NOW() AND scheduled_start <= $2
		ORDER BY scheduled_start ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, time.Now().Add(within))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// GetUnsettledFinals retrieves FINAL events that still have pending predictions
func (r *PostgresEventRepository) GetUnsettledFinals(ctx context.Context, limit int) ([]*models.Event, error) {
	query := `
		SELECT DISTINCT e.id, e.external_id, e.sport, e.home_team_id, e.away_team_id,
		       e.home_team_name, e.away_team_name, e.scheduled_start, e.status,
		       e.home_score, e.away_score, e.lines, e.created_at, e.updated_at
		FROM events e
		JOIN predictions p ON p.event_id = e.id
		WHERE e.status = 'FINAL' AND p.outcome = 'PENDING'
		ORDER BY e.scheduled_start ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled finals: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// UpdateScore records final or in-progress scores and the status transition
func (r *PostgresEventRepository) UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int, status models.EventStatus) error {
	query := `
		UPDATE events SET
			home_score = $2, away_score = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, homeScore, awayScore, status)
	if err != nil {
		return fmt.Errorf("failed to update event score: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func marshalLines(lines *models.MarketLines) ([]byte, error) {
	if lines == nil {
		return nil, nil
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal market lines: %w", err)
	}
	return data, nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	event := &models.Event{}
	var lines []byte
	err := row.Scan(
		&event.ID, &event.ExternalID, &event.Sport, &event.HomeTeamID, &event.AwayTeamID,
		&event.HomeTeamName, &event.AwayTeamName, &event.ScheduledStart, &event.Status,
		&event.HomeScore, &event.AwayScore, &lines, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		event.Lines = &models.MarketLines{}
		if err := json.Unmarshal(lines, event.Lines); err != nil {
			return nil, fmt.Errorf("failed to unmarshal market lines: %w", err)
		}
	}
	return event, nil
}

func collectEvents(rows pgx.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanEvent, err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
