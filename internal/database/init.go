package database

import (
	"context"
	"fmt"

	"github.com/yourusername/sharp-picks/internal/config"
)

// schema holds the DDL for the two tables the engine persists to.
// CREATE TABLE IF NOT EXISTS keeps startup idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		external_id TEXT NOT NULL UNIQUE,
		sport TEXT NOT NULL,
		home_team_id TEXT NOT NULL,
		away_team_id TEXT NOT NULL,
		home_team_name TEXT NOT NULL,
		away_team_name TEXT NOT NULL,
		scheduled_start TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'SCHEDULED',
		home_score INT,
		away_score INT,
		lines JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_sport_start ON events (sport, scheduled_start)`,
	`CREATE INDEX IF NOT EXISTS idx_events_status ON events (status)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id UUID PRIMARY KEY,
		event_id UUID NOT NULL REFERENCES events(id),
		market TEXT NOT NULL,
		value TEXT NOT NULL,
		raw_confidence DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		grade TEXT NOT NULL,
		reasoning TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL DEFAULT 'PENDING',
		settled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (event_id, market)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_outcome ON predictions (outcome)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the engine's DDL statements
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
