package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-picks/internal/models"
)

// SportsDataClient talks to the upstream sports-data JSON API. One client
// serves stats, schedules with odds, and scores; the factory hands it out
// behind the narrower provider interfaces.
type SportsDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	name       string
	logger     logrus.FieldLogger
}

// sportsDataTeamStats is the provider's team statistics payload
type sportsDataTeamStats struct {
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	HomeWins   *int   `json:"homeWins"`
	HomeLosses *int   `json:"homeLosses"`
	AwayWins   *int   `json:"awayWins"`
	AwayLosses *int   `json:"awayLosses"`
	LastTen    *int   `json:"lastTenWins"`

	AvgScored  *float64 `json:"avgPointsScored"`
	AvgAllowed *float64 `json:"avgPointsAllowed"`

	TeamERA       *float64 `json:"teamEra"`
	TeamWHIP      *float64 `json:"teamWhip"`
	StarterERA    *float64 `json:"probableStarterEra"`
	StarterWHIP   *float64 `json:"probableStarterWhip"`
	StarterThrows *string  `json:"probableStarterThrows"`
	OPSVsLeft     *float64 `json:"opsVsLeft"`
	OPSVsRight    *float64 `json:"opsVsRight"`

	KeyBatters []struct {
		Name    string  `json:"name"`
		OPS     float64 `json:"ops"`
		WRCPlus float64 `json:"wrcPlus"`
		WAR     float64 `json:"war"`
	} `json:"keyBatters"`
	KeyPitchers []struct {
		Name string  `json:"name"`
		ERA  float64 `json:"era"`
		WHIP float64 `json:"whip"`
		FIP  float64 `json:"fip"`
		WAR  float64 `json:"war"`
	} `json:"keyPitchers"`

	Pace            *float64 `json:"pace"`
	OffensiveRating *float64 `json:"offensiveRating"`
	DefensiveRating *float64 `json:"defensiveRating"`
}

// sportsDataHeadToHead is the provider's prior-meetings payload
type sportsDataHeadToHead struct {
	TotalGames   int      `json:"totalGames"`
	HomeWins     int      `json:"homeTeamWins"`
	AwayWins     int      `json:"awayTeamWins"`
	AvgScoreDiff *float64 `json:"avgScoreDiff"`
	LastResult   string   `json:"lastResult"`
}

// sportsDataGame is one entry in the provider's schedule payload
type sportsDataGame struct {
	GameID       string `json:"gameId"`
	HomeTeamID   string `json:"homeTeamId"`
	AwayTeamID   string `json:"awayTeamId"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamName string `json:"awayTeamName"`
	StartTime    string `json:"startTime"`
	Status       string `json:"status"`

	Odds *struct {
		SpreadHomeLine  *string `json:"spreadHomeLine"`
		SpreadHomePrice *int    `json:"spreadHomePrice"`
		SpreadAwayPrice *int    `json:"spreadAwayPrice"`
		TotalLine       *string `json:"totalLine"`
		TotalOverPrice  *int    `json:"totalOverPrice"`
		TotalUnderPrice *int    `json:"totalUnderPrice"`
		MoneylineHome   *int    `json:"moneylineHome"`
		MoneylineAway   *int    `json:"moneylineAway"`
	} `json:"odds"`
}

// sportsDataScore is the provider's live or final score payload
type sportsDataScore struct {
	GameID    string `json:"gameId"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status"`
}

// sportsDataRecentGame is one entry in the recent-results payload
type sportsDataRecentGame struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// NewSportsDataClient creates a client for one configured provider endpoint
func NewSportsDataClient(httpClient *RateLimitedHTTPClient, name, baseURL, apiKey string, logger logrus.FieldLogger) *SportsDataClient {
	return &SportsDataClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		name:       name,
		logger:     logger,
	}
}

// Name returns the provider name
func (c *SportsDataClient) Name() string {
	return c.name
}

// GetTeamStats retrieves the current statistical snapshot for a team
func (c *SportsDataClient) GetTeamStats(ctx context.Context, sport models.Sport, teamID string) (*models.TeamStatSnapshot, error) {
	url := fmt.Sprintf("%s/%s/teams/%s/stats", c.baseURL, sportPath(sport), teamID)

	var payload sportsDataTeamStats
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return convertTeamStats(&payload), nil
}

// GetHeadToHead retrieves prior-meeting aggregates oriented to the home side
func (c *SportsDataClient) GetHeadToHead(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string) (*models.HeadToHeadSnapshot, error) {
	url := fmt.Sprintf("%s/%s/headtohead?home=%s&away=%s", c.baseURL, sportPath(sport), homeTeamID, awayTeamID)

	var payload sportsDataHeadToHead
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return &models.HeadToHeadSnapshot{
		TotalGames:   payload.TotalGames,
		HomeWins:     payload.HomeWins,
		AwayWins:     payload.AwayWins,
		AvgScoreDiff: payload.AvgScoreDiff,
		LastResult:   payload.LastResult,
	}, nil
}

// GetRecentCombinedScores retrieves combined final scores of the teams'
// most recent games, newest first
func (c *SportsDataClient) GetRecentCombinedScores(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string, games int) ([]float64, error) {
	url := fmt.Sprintf("%s/%s/recent?home=%s&away=%s&limit=%d", c.baseURL, sportPath(sport), homeTeamID, awayTeamID, games)

	var payload []sportsDataRecentGame
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	combined := make([]float64, 0, len(payload))
	for _, game := range payload {
		combined = append(combined, float64(game.HomeScore+game.AwayScore))
	}
	return combined, nil
}

// GetUpcomingEvents retrieves events scheduled within the date range,
// with whatever market lines the book has posted
func (c *SportsDataClient) GetUpcomingEvents(ctx context.Context, sport models.Sport, from, to time.Time) ([]*models.Event, error) {
	url := fmt.Sprintf("%s/%s/schedule?from=%s&to=%s",
		c.baseURL, sportPath(sport), from.Format("2006-01-02"), to.Format("2006-01-02"))

	var payload []sportsDataGame
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	events := make([]*models.Event, 0, len(payload))
	for i := range payload {
		event, err := c.convertGame(sport, &payload[i])
		if err != nil {
			c.logger.WithField("game_id", payload[i].GameID).WithError(err).Warn("Skipping malformed game")
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// GetScore retrieves the current score for an event by provider ID
func (c *SportsDataClient) GetScore(ctx context.Context, sport models.Sport, externalID string) (*ScoreUpdate, error) {
	url := fmt.Sprintf("%s/%s/games/%s/score", c.baseURL, sportPath(sport), externalID)

	var payload sportsDataScore
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return &ScoreUpdate{
		ExternalID: payload.GameID,
		HomeScore:  payload.HomeScore,
		AwayScore:  payload.AwayScore,
		Final:      eventStatus(payload.Status) == models.EventStatusFinal,
	}, nil
}

func (c *SportsDataClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewProviderError(c.name, ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewProviderError(c.name, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewProviderError(c.name, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(c.name, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(c.name, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewProviderError(c.name, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(c.name, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}

func (c *SportsDataClient) convertGame(sport models.Sport, game *sportsDataGame) (*models.Event, error) {
	start, err := time.Parse(time.RFC3339, game.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", game.StartTime, err)
	}
	if game.HomeTeamID == "" || game.AwayTeamID == "" {
		return nil, fmt.Errorf("game %s missing team identifiers", game.GameID)
	}

	now := time.Now().UTC()
	event := &models.Event{
		ID:             uuid.New(),
		ExternalID:     game.GameID,
		Sport:          sport,
		HomeTeamID:     game.HomeTeamID,
		AwayTeamID:     game.AwayTeamID,
		HomeTeamName:   game.HomeTeamName,
		AwayTeamName:   game.AwayTeamName,
		ScheduledStart: start,
		Status:         eventStatus(game.Status),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if game.Odds != nil {
		lines := &models.MarketLines{}

		if game.Odds.SpreadHomeLine != nil && game.Odds.SpreadHomePrice != nil && game.Odds.SpreadAwayPrice != nil {
			if line, err := decimal.NewFromString(*game.Odds.SpreadHomeLine); err == nil {
				lines.Spread = &models.SpreadLine{
					HomeLine:  line,
					HomePrice: *game.Odds.SpreadHomePrice,
					AwayPrice: *game.Odds.SpreadAwayPrice,
				}
			}
		}

		if game.Odds.TotalLine != nil && game.Odds.TotalOverPrice != nil && game.Odds.TotalUnderPrice != nil {
			if line, err := decimal.NewFromString(*game.Odds.TotalLine); err == nil {
				lines.Total = &models.TotalLine{
					Line:       line,
					OverPrice:  *game.Odds.TotalOverPrice,
					UnderPrice: *game.Odds.TotalUnderPrice,
				}
			}
		}

		if game.Odds.MoneylineHome != nil && game.Odds.MoneylineAway != nil {
			lines.Moneyline = &models.MoneylineLine{
				HomePrice: *game.Odds.MoneylineHome,
				AwayPrice: *game.Odds.MoneylineAway,
			}
		}

		if lines.Spread != nil || lines.Total != nil || lines.Moneyline != nil {
			event.Lines = lines
		}
	}

	return event, nil
}

func convertTeamStats(payload *sportsDataTeamStats) *models.TeamStatSnapshot {
	snapshot := &models.TeamStatSnapshot{
		TeamID:        payload.TeamID,
		TeamName:      payload.TeamName,
		Wins:          payload.Wins,
		Losses:        payload.Losses,
		HomeWins:      payload.HomeWins,
		HomeLosses:    payload.HomeLosses,
		AwayWins:      payload.AwayWins,
		AwayLosses:    payload.AwayLosses,
		LastTenWins:   payload.LastTen,
		AvgScored:     payload.AvgScored,
		AvgAllowed:    payload.AvgAllowed,
		TeamERA:       payload.TeamERA,
		TeamWHIP:      payload.TeamWHIP,
		StarterERA:    payload.StarterERA,
		StarterWHIP:   payload.StarterWHIP,
		StarterThrows: payload.StarterThrows,
		OPSVsLeft:     payload.OPSVsLeft,
		OPSVsRight:    payload.OPSVsRight,

		Pace:            payload.Pace,
		OffensiveRating: payload.OffensiveRating,
		DefensiveRating: payload.DefensiveRating,
	}

	for _, b := range payload.KeyBatters {
		snapshot.KeyBatters = append(snapshot.KeyBatters, models.BatterLine{
			Name: b.Name, OPS: b.OPS, WRCPlus: b.WRCPlus, WAR: b.WAR,
		})
	}
	for _, p := range payload.KeyPitchers {
		snapshot.KeyPitchers = append(snapshot.KeyPitchers, models.PitcherLine{
			Name: p.Name, ERA: p.ERA, WHIP: p.WHIP, FIP: p.FIP, WAR: p.WAR,
		})
	}

	return snapshot
}

// sportPath maps a sport to its URL segment
func sportPath(sport models.Sport) string {
	switch sport {
	case models.SportBaseball:
		return "mlb"
	case models.SportBasketball:
		return "nba"
	}
	return "unknown"
}

// eventStatus maps provider status strings onto the event lifecycle
func eventStatus(status string) models.EventStatus {
	switch status {
	case "scheduled", "SCHEDULED":
		return models.EventStatusScheduled
	case "inprogress", "in_progress", "IN_PROGRESS", "live":
		return models.EventStatusInProgress
	case "final", "FINAL", "closed":
		return models.EventStatusFinal
	case "postponed", "POSTPONED":
		return models.EventStatusPostponed
	case "cancelled", "canceled", "CANCELLED":
		return models.EventStatusCancelled
	}
	return models.EventStatusScheduled
}
