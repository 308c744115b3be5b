package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/models"
)

// These tests run against a real PostgreSQL instance and skip when no
// test database config is present.

func testEvent(externalID string) *models.Event {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Event{
		ID:             uuid.New(),
		ExternalID:     externalID,
		Sport:          models.SportBaseball,
		HomeTeamID:     "NYY",
		AwayTeamID:     "BOS",
		HomeTeamName:   "Yankees",
		AwayTeamName:   "Red Sox",
		ScheduledStart: now.Add(6 * time.Hour),
		Status:         models.EventStatusScheduled,
		Lines: &models.MarketLines{
			Spread: &models.SpreadLine{HomeLine: decimal.NewFromFloat(-1.5), HomePrice: -110, AwayPrice: -110},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEventRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresEventRepository(db)
	ctx := context.Background()

	event := testEvent(uuid.NewString())
	require.NoError(t, repo.Upsert(ctx, event))

	got, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ExternalID, got.ExternalID)
	require.NotNil(t, got.Lines)
	require.NotNil(t, got.Lines.Spread)
	assert.True(t, got.Lines.Spread.HomeLine.Equal(decimal.NewFromFloat(-1.5)))

	byExternal, err := repo.GetByExternalID(ctx, event.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, byExternal.ID)
}

func TestEventRepositoryUpsertRefreshes(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresEventRepository(db)
	ctx := context.Background()

	event := testEvent(uuid.NewString())
	require.NoError(t, repo.Upsert(ctx, event))

	// Second ingest of the same external ID updates in place
	refreshed := *event
	refreshed.ID = uuid.New()
	refreshed.Status = models.EventStatusInProgress
	require.NoError(t, repo.Upsert(ctx, &refreshed))

	got, err := repo.GetByExternalID(ctx, event.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID, "upsert must not mint a new row")
	assert.Equal(t, models.EventStatusInProgress, got.Status)
}

func TestEventRepositoryNotFound(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresEventRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = repo.UpdateScore(context.Background(), uuid.New(), 1, 0, models.EventStatusFinal)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestPredictionRepositoryLifecycle(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	eventRepo := NewPostgresEventRepository(db)
	predictionRepo := NewPostgresPredictionRepository(db)
	ctx := context.Background()

	event := testEvent(uuid.NewString())
	require.NoError(t, eventRepo.Upsert(ctx, event))

	prediction := models.NewPrediction(event.ID, models.MarketSpread, "-1.5", 0.72, 0.76, "A-", "pass=balanced")
	require.NoError(t, predictionRepo.Create(ctx, prediction))

	// Same (event, market) pair is rejected
	duplicate := models.NewPrediction(event.ID, models.MarketSpread, "-2.5", 0.70, 0.71, "B+", "")
	err := predictionRepo.Create(ctx, duplicate)
	assert.True(t, errors.Is(err, models.ErrDuplicateKey))

	pending, err := predictionRepo.GetPending(ctx, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, pending)

	settledAt := time.Now().UTC()
	require.NoError(t, predictionRepo.UpdateOutcome(ctx, prediction.ID, models.OutcomeWin, settledAt))

	got, err := predictionRepo.GetByID(ctx, prediction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeWin, got.Outcome)
	require.NotNil(t, got.SettledAt)

	// A settled row never flips, even under a conflicting update
	err = predictionRepo.UpdateOutcome(ctx, prediction.ID, models.OutcomeLoss, time.Now().UTC())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	got, err = predictionRepo.GetByID(ctx, prediction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeWin, got.Outcome)

	byEvent, err := predictionRepo.GetByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, byEvent, 1)
}

func TestGetUnsettledFinals(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	eventRepo := NewPostgresEventRepository(db)
	predictionRepo := NewPostgresPredictionRepository(db)
	ctx := context.Background()

	event := testEvent(uuid.NewString())
	require.NoError(t, eventRepo.Upsert(ctx, event))

	prediction := models.NewPrediction(event.ID, models.MarketMoneyline, "-140", 0.7, 0.75, "A-", "")
	require.NoError(t, predictionRepo.Create(ctx, prediction))

	// Not final yet: excluded
	finals, err := eventRepo.GetUnsettledFinals(ctx, 100)
	require.NoError(t, err)
	for _, e := range finals {
		assert.NotEqual(t, event.ID, e.ID)
	}

	require.NoError(t, eventRepo.UpdateScore(ctx, event.ID, 6, 3, models.EventStatusFinal))

	finals, err = eventRepo.GetUnsettledFinals(ctx, 100)
	require.NoError(t, err)
	found := false
	for _, e := range finals {
		if e.ID == event.ID {
			found = true
			home, away, ok := e.FinalScore()
			require.True(t, ok)
			assert.Equal(t, 6, home)
			assert.Equal(t, 3, away)
		}
	}
	assert.True(t, found, "final event with pending prediction should be returned")

	// Settling the prediction removes the event from the sweep set
	require.NoError(t, predictionRepo.UpdateOutcome(ctx, prediction.ID, models.OutcomeWin, time.Now().UTC()))
	finals, err = eventRepo.GetUnsettledFinals(ctx, 100)
	require.NoError(t, err)
	for _, e := range finals {
		assert.NotEqual(t, event.ID, e.ID)
	}
}
