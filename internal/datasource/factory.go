package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-picks/internal/config"
)

// Providers bundles the wired upstream clients
type Providers struct {
	Stats  StatsProvider
	Odds   OddsProvider
	Scores ScoreProvider
	Stream *ScoreStream
}

// Factory creates provider clients from configuration
type Factory struct {
	logger logrus.FieldLogger
}

// NewFactory creates a new provider factory
func NewFactory(logger logrus.FieldLogger) *Factory {
	return &Factory{logger: logger}
}

// Build wires the stats, odds and score providers from configuration.
// Stats lookups are cached; the score stream is only constructed when
// the provider declares a stream URL.
func (f *Factory) Build(cfg config.ProvidersConfig) (*Providers, error) {
	stats, err := f.newClient("stats", cfg.Stats)
	if err != nil {
		return nil, err
	}
	odds, err := f.newClient("odds", cfg.Odds)
	if err != nil {
		return nil, err
	}
	scores, err := f.newClient("scores", cfg.Scores)
	if err != nil {
		return nil, err
	}

	providers := &Providers{
		Stats:  NewCachedStatsProvider(stats, time.Duration(cfg.Stats.CacheTTLSeconds)*time.Second),
		Odds:   odds,
		Scores: scores,
	}

	if cfg.Scores.StreamURL != "" {
		providers.Stream = NewScoreStream(cfg.Scores.StreamURL, cfg.Scores.APIKey, f.logger)
	}

	return providers, nil
}

func (f *Factory) newClient(name string, cfg config.ProviderConfig) (*SportsDataClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider %s: base URL is required", name)
	}

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.RateLimit = cfg.RequestsPerSecond
	if cfg.RetryAttempts > 0 {
		httpCfg.MaxRetries = cfg.RetryAttempts
	}

	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)
	return NewSportsDataClient(httpClient, name, cfg.BaseURL, cfg.APIKey, f.logger), nil
}
