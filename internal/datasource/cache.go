package datasource

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/sharp-picks/internal/models"
)

// CachedStatsProvider wraps a StatsProvider with a TTL cache. Team stats
// move slowly relative to how often the scoring passes ask for them, so
// repeated lookups within a run hit the cache.
type CachedStatsProvider struct {
	provider StatsProvider
	cache    *gocache.Cache
}

// NewCachedStatsProvider wraps the provider with the given TTL
func NewCachedStatsProvider(provider StatsProvider, ttl time.Duration) *CachedStatsProvider {
	return &CachedStatsProvider{
		provider: provider,
		cache:    gocache.New(ttl, 2*ttl),
	}
}

// Name returns the underlying provider name
func (c *CachedStatsProvider) Name() string {
	return c.provider.Name()
}

// GetTeamStats returns cached stats when fresh, otherwise fetches and caches
func (c *CachedStatsProvider) GetTeamStats(ctx context.Context, sport models.Sport, teamID string) (*models.TeamStatSnapshot, error) {
	key := fmt.Sprintf("stats:%s:%s", sport, teamID)
	if cached, found := c.cache.Get(key); found {
		return cached.(*models.TeamStatSnapshot), nil
	}

	stats, err := c.provider.GetTeamStats(ctx, sport, teamID)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, stats)
	return stats, nil
}

// GetHeadToHead returns cached prior-meeting aggregates when fresh
func (c *CachedStatsProvider) GetHeadToHead(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string) (*models.HeadToHeadSnapshot, error) {
	key := fmt.Sprintf("h2h:%s:%s:%s", sport, homeTeamID, awayTeamID)
	if cached, found := c.cache.Get(key); found {
		return cached.(*models.HeadToHeadSnapshot), nil
	}

	h2h, err := c.provider.GetHeadToHead(ctx, sport, homeTeamID, awayTeamID)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, h2h)
	return h2h, nil
}

// GetRecentCombinedScores returns cached recent scores when fresh
func (c *CachedStatsProvider) GetRecentCombinedScores(ctx context.Context, sport models.Sport, homeTeamID, awayTeamID string, games int) ([]float64, error) {
	key := fmt.Sprintf("recent:%s:%s:%s:%d", sport, homeTeamID, awayTeamID, games)
	if cached, found := c.cache.Get(key); found {
		return cached.([]float64), nil
	}

	scores, err := c.provider.GetRecentCombinedScores(ctx, sport, homeTeamID, awayTeamID, games)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, scores)
	return scores, nil
}

// Flush drops all cached entries
func (c *CachedStatsProvider) Flush() {
	c.cache.Flush()
}
