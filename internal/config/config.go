// Package config provides configuration management for the Sharp Picks application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Providers     ProvidersConfig     `mapstructure:"providers" validate:"required"`
	Engine        EngineConfig        `mapstructure:"engine" validate:"required"`
	Schedule      ScheduleConfig      `mapstructure:"schedule" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
	Features      FeaturesConfig      `mapstructure:"features" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProvidersConfig groups the external stats, odds and score feeds
type ProvidersConfig struct {
	Stats  ProviderConfig `mapstructure:"stats" validate:"required"`
	Odds   ProviderConfig `mapstructure:"odds" validate:"required"`
	Scores ProviderConfig `mapstructure:"scores" validate:"required"`
}

// ProviderConfig represents a single upstream data provider
type ProviderConfig struct {
	BaseURL           string `mapstructure:"base_url" validate:"required,url"`
	APIKey            string `mapstructure:"api_key"`
	StreamURL         string `mapstructure:"stream_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	CacheTTLSeconds   int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// EngineConfig represents scoring and calibration configuration
type EngineConfig struct {
	Sports              []string `mapstructure:"sports" validate:"required,min=1,sports"`
	MaxConfidence       float64  `mapstructure:"max_confidence" validate:"required,gt=0.5,lte=1"`
	OptimalMin          float64  `mapstructure:"optimal_min" validate:"required,gt=0,lt=1"`
	OptimalMax          float64  `mapstructure:"optimal_max" validate:"required,gt=0,lt=1"`
	GradeProfile        string   `mapstructure:"grade_profile" validate:"required,oneof=fine coarse"`
	LookaheadHours      int      `mapstructure:"lookahead_hours" validate:"required,gt=0"`
	RecentScoreGames    int      `mapstructure:"recent_score_games" validate:"required,gt=0"`
}

// ScheduleConfig represents cron scheduling for the daily pipeline
type ScheduleConfig struct {
	Predictions              string `mapstructure:"predictions" validate:"required"`
	Settlement               string `mapstructure:"settlement" validate:"required"`
	ScorePollIntervalSeconds int    `mapstructure:"score_poll_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	LiveScoreStreamEnabled bool `mapstructure:"live_score_stream_enabled"`
	CoarseGradesEnabled    bool `mapstructure:"coarse_grades_enabled"`
	SettlementEnabled      bool `mapstructure:"settlement_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
