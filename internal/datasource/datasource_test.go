package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-picks/internal/models"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testClient(t *testing.T, handler http.HandlerFunc) (*SportsDataClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000

	httpClient := NewRateLimitedHTTPClient(cfg, testLogger())
	return NewSportsDataClient(httpClient, "stats", server.URL, "test-key", testLogger()), server
}

func TestGetTeamStats(t *testing.T) {
	var gotPath, gotAuth string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"teamId": "NYY",
			"teamName": "New York Yankees",
			"wins": 58, "losses": 40,
			"homeWins": 32, "homeLosses": 16,
			"lastTenWins": 7,
			"avgPointsScored": 5.2, "avgPointsAllowed": 4.1,
			"teamEra": 3.55, "teamWhip": 1.18,
			"probableStarterEra": 2.95, "probableStarterThrows": "L",
			"opsVsLeft": 0.742, "opsVsRight": 0.781,
			"keyBatters": [{"name": "Judge", "ops": 1.05, "wrcPlus": 180, "war": 6.2}],
			"keyPitchers": [{"name": "Cole", "era": 2.95, "whip": 1.02, "fip": 3.1, "war": 4.0}]
		}`)
	})

	stats, err := client.GetTeamStats(context.Background(), models.SportBaseball, "NYY")
	require.NoError(t, err)

	assert.Equal(t, "/mlb/teams/NYY/stats", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "New York Yankees", stats.TeamName)
	assert.Equal(t, 58, stats.Wins)
	require.NotNil(t, stats.LastTenWins)
	assert.Equal(t, 7, *stats.LastTenWins)
	require.NotNil(t, stats.StarterThrows)
	assert.Equal(t, "L", *stats.StarterThrows)
	require.Len(t, stats.KeyBatters, 1)
	assert.Equal(t, 1.05, stats.KeyBatters[0].OPS)
	require.Len(t, stats.KeyPitchers, 1)
	assert.Equal(t, 2.95, stats.KeyPitchers[0].ERA)
	assert.Nil(t, stats.Pace)
}

func TestGetHeadToHead(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nba/headtohead", r.URL.Path)
		assert.Equal(t, "BOS", r.URL.Query().Get("home"))
		assert.Equal(t, "LAL", r.URL.Query().Get("away"))
		io.WriteString(w, `{"totalGames": 4, "homeTeamWins": 3, "awayTeamWins": 1}`)
	})

	h2h, err := client.GetHeadToHead(context.Background(), models.SportBasketball, "BOS", "LAL")
	require.NoError(t, err)
	assert.Equal(t, 4, h2h.TotalGames)
	assert.Equal(t, 0.75, h2h.HomeWinFraction())
}

func TestGetRecentCombinedScores(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"homeScore": 5, "awayScore": 3}, {"homeScore": 2, "awayScore": 8}]`)
	})

	scores, err := client.GetRecentCombinedScores(context.Background(), models.SportBaseball, "NYY", "BOS", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 10}, scores)
}

func TestGetUpcomingEvents(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mlb/schedule", r.URL.Path)
		io.WriteString(w, `[
			{
				"gameId": "mlb-2026-001",
				"homeTeamId": "NYY", "awayTeamId": "BOS",
				"homeTeamName": "Yankees", "awayTeamName": "Red Sox",
				"startTime": "2026-09-01T23:05:00Z",
				"status": "scheduled",
				"odds": {
					"spreadHomeLine": "-1.5", "spreadHomePrice": -110, "spreadAwayPrice": -110,
					"totalLine": "8.5", "totalOverPrice": -105, "totalUnderPrice": -115,
					"moneylineHome": -140, "moneylineAway": 120
				}
			},
			{
				"gameId": "mlb-2026-002",
				"homeTeamId": "", "awayTeamId": "TOR",
				"homeTeamName": "", "awayTeamName": "Blue Jays",
				"startTime": "2026-09-01T23:05:00Z",
				"status": "scheduled"
			}
		]`)
	})

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	events, err := client.GetUpcomingEvents(context.Background(), models.SportBaseball, from, from.Add(24*time.Hour))
	require.NoError(t, err)

	// The entry missing team identifiers is dropped, not returned broken
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, "mlb-2026-001", event.ExternalID)
	assert.Equal(t, models.EventStatusScheduled, event.Status)
	require.NotNil(t, event.Lines)
	require.NotNil(t, event.Lines.Spread)
	assert.Equal(t, "-1.5", event.Lines.Spread.HomeLine.String())
	assert.Equal(t, -110, event.Lines.Spread.HomePrice)
	require.NotNil(t, event.Lines.Total)
	assert.Equal(t, "8.5", event.Lines.Total.Line.String())
	require.NotNil(t, event.Lines.Moneyline)
	assert.Equal(t, -140, event.Lines.Moneyline.HomePrice)
	assert.Equal(t, 120, event.Lines.Moneyline.AwayPrice)
}

func TestGetUpcomingEventsWithoutOdds(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{
			"gameId": "nba-2026-100",
			"homeTeamId": "BOS", "awayTeamId": "LAL",
			"homeTeamName": "Celtics", "awayTeamName": "Lakers",
			"startTime": "2026-09-02T00:30:00Z",
			"status": "scheduled"
		}]`)
	})

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	events, err := client.GetUpcomingEvents(context.Background(), models.SportBasketball, from, from.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Lines)
}

func TestGetScore(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mlb/games/mlb-2026-001/score", r.URL.Path)
		io.WriteString(w, `{"gameId": "mlb-2026-001", "homeScore": 6, "awayScore": 3, "status": "final"}`)
	})

	update, err := client.GetScore(context.Background(), models.SportBaseball, "mlb-2026-001")
	require.NoError(t, err)
	assert.Equal(t, "mlb-2026-001", update.ExternalID)
	assert.Equal(t, 6, update.HomeScore)
	assert.Equal(t, 3, update.AwayScore)
	assert.True(t, update.Final)
}

func TestProviderErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantCode   string
	}{
		{"unauthorized", http.StatusUnauthorized, ErrCodeAuthenticationFailed},
		{"not found", http.StatusNotFound, ErrCodeNotFound},
		{"bad request", http.StatusBadRequest, ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := client.GetTeamStats(context.Background(), models.SportBaseball, "NYY")
			require.Error(t, err)

			var provErr ProviderError
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, tt.wantCode, provErr.Code)
			assert.Equal(t, "stats", provErr.Provider)
		})
	}
}

func TestCustomRetryPolicy(t *testing.T) {
	policy := customRetryPolicy()

	tests := []struct {
		statusCode int
		wantRetry  bool
	}{
		{http.StatusOK, false},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
	}

	for _, tt := range tests {
		resp := &http.Response{StatusCode: tt.statusCode}
		retry, err := policy(context.Background(), resp, nil)
		assert.NoError(t, err)
		assert.Equal(t, tt.wantRetry, retry, "status %d", tt.statusCode)
	}
}

type countingStatsProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *countingStatsProvider) GetTeamStats(ctx context.Context, sport models.Sport, teamID string) (*models.TeamStatSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return &models.TeamStatSnapshot{TeamID: teamID, Wins: p.calls}, nil
}

func (p *countingStatsProvider) GetHeadToHead(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string) (*models.HeadToHeadSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return &models.HeadToHeadSnapshot{TotalGames: p.calls}, nil
}

func (p *countingStatsProvider) GetRecentCombinedScores(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string, games int) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return []float64{float64(p.calls)}, nil
}

func (p *countingStatsProvider) Name() string { return "counting" }

func TestCachedStatsProvider(t *testing.T) {
	upstream := &countingStatsProvider{}
	cached := NewCachedStatsProvider(upstream, time.Minute)

	ctx := context.Background()

	first, err := cached.GetTeamStats(ctx, models.SportBaseball, "NYY")
	require.NoError(t, err)
	second, err := cached.GetTeamStats(ctx, models.SportBaseball, "NYY")
	require.NoError(t, err)
	assert.Equal(t, first.Wins, second.Wins, "second lookup should hit cache")

	// A different team is a cache miss
	other, err := cached.GetTeamStats(ctx, models.SportBaseball, "BOS")
	require.NoError(t, err)
	assert.NotEqual(t, first.Wins, other.Wins)

	cached.Flush()
	third, err := cached.GetTeamStats(ctx, models.SportBaseball, "NYY")
	require.NoError(t, err)
	assert.NotEqual(t, first.Wins, third.Wins, "flush should force a refetch")
}

func TestScoreStreamDeliversUpdates(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Wait for the subscribe frame before emitting scores
		var sub map[string]interface{}
		require.NoError(t, conn.ReadJSON(&sub))
		assert.Equal(t, "subscribe", sub["op"])

		require.NoError(t, conn.WriteJSON(streamMessage{
			Op: "score",
			Scores: []ScoreEvent{
				{GameID: "mlb-2026-001", HomeScore: 6, AwayScore: 3, Status: "final"},
			},
		}))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	stream := NewScoreStream(wsURL, "test-key", testLogger())

	received := make(chan ScoreUpdate, 1)
	stream.AddHandler(func(update ScoreUpdate) error {
		received <- update
		return nil
	})

	require.NoError(t, stream.Connect(context.Background()))
	defer stream.Close()
	require.NoError(t, stream.Subscribe([]string{"MLB"}))

	select {
	case update := <-received:
		assert.Equal(t, "mlb-2026-001", update.ExternalID)
		assert.Equal(t, 6, update.HomeScore)
		assert.True(t, update.Final)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for score update")
	}
}
