// Package main provides a one-shot scoring run over upcoming events.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/datasource"
	"github.com/yourusername/sharp-picks/internal/engine"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/repository"
	"github.com/yourusername/sharp-picks/internal/service"
)

var (
	configFile  string
	skipIngest  bool
	sportFilter string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&skipIngest, "skip-ingest", false, "Score already-stored events without refreshing the schedule")
	rootCmd.Flags().StringVar(&sportFilter, "sport", "", "Limit the run to one sport (MLB or NBA)")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score upcoming events and persist predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runOnce() error {
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

	sports := make([]models.Sport, 0, len(cfg.Engine.Sports))
	for _, s := range cfg.Engine.Sports {
		if sportFilter != "" && s != sportFilter {
			continue
		}
		sports = append(sports, models.Sport(s))
	}
	if len(sports) == 0 {
		return fmt.Errorf("no configured sport matches %q", sportFilter)
	}

	eventRepo := repository.NewPostgresEventRepository(db)
	predictionRepo := repository.NewPostgresPredictionRepository(db)
	pickLog := logger.NewPickLogger(appLog)
	lookahead := time.Duration(cfg.Engine.LookaheadHours) * time.Hour

	if !skipIngest {
		ingestionSvc := service.NewIngestionService(providers.Odds, eventRepo, pickLog)
		if err := ingestionSvc.IngestUpcoming(ctx, sports, lookahead); err != nil {
			appLog.WithError(err).Warn("Schedule ingestion reported errors")
		}
	}

	calibratorCfg := engine.DefaultCalibratorConfig()
	calibratorCfg.MaxConfidence = cfg.Engine.MaxConfidence
	calibratorCfg.OptimalMin = cfg.Engine.OptimalMin
	calibratorCfg.OptimalMax = cfg.Engine.OptimalMax
	calibrator := engine.NewCalibrator(calibratorCfg)

	combiner, err := engine.NewCombiner([]engine.ScoringPass{
		engine.NewBalancedPass(calibrator),
		engine.NewConservativePass(calibrator),
		engine.NewFormPass(calibrator),
	})
	if err != nil {
		return err
	}
	if cfg.Engine.GradeProfile == "coarse" || cfg.Features.CoarseGradesEnabled {
		combiner.UseGradeProfile(engine.GradeProfileCoarse)
	}

	predictionSvc := service.NewPredictionService(eventRepo, predictionRepo, providers.Stats, combiner, pickLog, service.PredictionConfig{
		Sports:           sports,
		Lookahead:        lookahead,
		RecentScoreGames: cfg.Engine.RecentScoreGames,
	})

	result, err := predictionSvc.Run(ctx)
	if err != nil {
		return err
	}

	appLog.WithFields(logrus.Fields{
		"events_scored":      result.EventsScored,
		"predictions_issued": result.PredictionsIssued,
		"errors":             result.Errors,
	}).Info("Scoring run completed")

	return nil
}
