package datasource

import (
	"context"
	"time"

	"github.com/yourusername/sharp-picks/internal/models"
)

// StatsProvider fetches team statistics used by the scoring factors
type StatsProvider interface {
	// GetTeamStats retrieves the current statistical snapshot for a team
	GetTeamStats(ctx context.Context, sport models.Sport, teamID string) (*models.TeamStatSnapshot, error)

	// GetHeadToHead retrieves prior-meeting aggregates oriented to the home side
	GetHeadToHead(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string) (*models.HeadToHeadSnapshot, error)

	// GetRecentCombinedScores retrieves combined final scores of the teams'
	// most recent games, newest first
	GetRecentCombinedScores(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string, games int) ([]float64, error)

	// Name returns the name of the provider
	Name() string
}

// OddsProvider fetches scheduled events together with their posted market lines
type OddsProvider interface {
	// GetUpcomingEvents retrieves events scheduled within the date range,
	// with whatever market lines the book has posted
	GetUpcomingEvents(ctx context.Context, sport models.Sport, from, to time.Time) ([]*models.Event, error)

	// Name returns the name of the provider
	Name() string
}

// ScoreUpdate is a single score observation for an event
type ScoreUpdate struct {
	ExternalID string `json:"external_id"`
	HomeScore  int    `json:"home_score"`
	AwayScore  int    `json:"away_score"`
	Final      bool   `json:"final"`
}

// ScoreProvider fetches game results used by settlement
type ScoreProvider interface {
	// GetScore retrieves the current score for an event by provider ID
	GetScore(ctx context.Context, sport models.Sport, externalID string) (*ScoreUpdate, error)

	// Name returns the name of the provider
	Name() string
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // Provider name
	Code     string // Error code (e.g., "rate_limit_exceeded")
	Message  string // Error message
	Err      error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
