package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/sharp-picks/internal/config"
)

// SetupTestDB creates a test database connection and verifies it.
// Skips the calling test when no test config is present.
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.Load("../../config/config.yaml.test")
	if err != nil {
		t.Skipf("skipping: no test database config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("skipping: test database unavailable: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to apply schema to test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	db.Close()
}
