// Package main provides a one-shot settlement sweep.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/datasource"
	"github.com/yourusername/sharp-picks/internal/engine"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/repository"
	"github.com/yourusername/sharp-picks/internal/service"
)

var (
	configFile string
	pollFirst  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&pollFirst, "poll", true, "Poll the score provider for finished events before sweeping")
}

var rootCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle pending predictions against final scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runSweep() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(cfg, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	ctx := context.Background()
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	providers, err := datasource.NewFactory(appLog).Build(cfg.Providers)
	if err != nil {
		return fmt.Errorf("failed to build providers: %w", err)
	}

	eventRepo := repository.NewPostgresEventRepository(db)
	predictionRepo := repository.NewPostgresPredictionRepository(db)
	pickLog := logger.NewPickLogger(appLog)

	settlementSvc := service.NewSettlementService(eventRepo, predictionRepo, providers.Scores, engine.NewResolver(), pickLog)

	if pollFirst {
		if err := settlementSvc.PollScores(ctx); err != nil {
			appLog.WithError(err).Warn("Score polling reported errors")
		}
	}

	result, err := settlementSvc.Sweep(ctx)
	if err != nil {
		return err
	}

	appLog.WithFields(logrus.Fields{
		"events_processed": result.EventsProcessed,
		"settled":          result.Settled,
		"failed":           result.Failed,
	}).Info("Settlement sweep completed")

	return nil
}
