// Package main provides the entry point for the picks daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/datasource"
	"github.com/yourusername/sharp-picks/internal/engine"
	"github.com/yourusername/sharp-picks/internal/health"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/repository"
	"github.com/yourusername/sharp-picks/internal/scheduler"
	"github.com/yourusername/sharp-picks/internal/service"
	"github.com/yourusername/sharp-picks/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "picksd",
	Short: "Prediction scoring and settlement daemon",
	Long:  `Runs the daily picks pipeline: ingests schedules and odds, scores upcoming events, and settles predictions against final scores.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return fmt.Errorf("environment check failed: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	xrayEnabled := os.Getenv("XRAY_ENABLED") == "true"
	if !xrayEnabled {
		// Segment helpers become no-ops without a daemon
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
	}
	if err := tracing.Initialize(tracing.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Enabled:     xrayEnabled,
		DaemonAddr:  os.Getenv("XRAY_DAEMON_ADDR"),
	}, appLog); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return nil
}

func run() error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"sports":      cfg.Engine.Sports,
	}).Info("Sharp Picks daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	appLog.Info("Database connection established")

	eventRepo := repository.NewPostgresEventRepository(db)
	predictionRepo := repository.NewPostgresPredictionRepository(db)

	providers, err := datasource.NewFactory(appLog).Build(cfg.Providers)
	if err != nil {
		return fmt.Errorf("failed to build providers: %w", err)
	}

	pickLog := logger.NewPickLogger(appLog)
	combiner := buildCombiner(cfg)
	sports := configuredSports(cfg)
	lookahead := time.Duration(cfg.Engine.LookaheadHours) * time.Hour

	ingestionSvc := service.NewIngestionService(providers.Odds, eventRepo, pickLog)
	predictionSvc := service.NewPredictionService(eventRepo, predictionRepo, providers.Stats, combiner, pickLog, service.PredictionConfig{
		Sports:           sports,
		Lookahead:        lookahead,
		RecentScoreGames: cfg.Engine.RecentScoreGames,
	})
	settlementSvc := service.NewSettlementService(eventRepo, predictionRepo, providers.Scores, engine.NewResolver(), pickLog)

	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics)
	}

	sched := scheduler.NewScheduler(ingestionSvc, predictionSvc, settlementSvc, appLog)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
		Scheduler:   sched,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if err := sched.SchedulePredictionRun(cfg.Schedule.Predictions, sports, lookahead); err != nil {
		return err
	}
	if cfg.Features.SettlementEnabled {
		if err := sched.ScheduleSettlementSweep(cfg.Schedule.Settlement); err != nil {
			return err
		}
		if err := sched.ScheduleScorePolling(cfg.Schedule.ScorePollIntervalSeconds); err != nil {
			return err
		}
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if cfg.Features.LiveScoreStreamEnabled && cfg.Features.SettlementEnabled && providers.Stream != nil {
		providers.Stream.AddHandler(func(update datasource.ScoreUpdate) error {
			return settlementSvc.HandleScoreUpdate(ctx, update)
		})
		if err := providers.Stream.ConnectWithRetry(ctx); err != nil {
			appLog.WithError(err).Warn("Score stream unavailable, relying on polling")
		} else if err := providers.Stream.Subscribe(cfg.Engine.Sports); err != nil {
			appLog.WithError(err).Warn("Score stream subscription failed")
		}
		defer providers.Stream.Close()
	}

	healthServer.SetReady(true)
	appLog.WithField("next_run", sched.GetNextRun()).Info("Daemon running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	appLog.WithField("signal", sig.String()).Info("Shutting down")
	healthServer.SetReady(false)

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Scheduler shutdown failed")
	}

	return nil
}

func startMetricsServer(cfg config.MetricsConfig) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithFields(logrus.Fields{"port": cfg.Port, "path": cfg.Path}).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()
}

func buildCombiner(cfg *config.Config) *engine.Combiner {
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
		// Static pass list; cannot happen
		panic(err)
	}

	if cfg.Engine.GradeProfile == "coarse" || cfg.Features.CoarseGradesEnabled {
		combiner.UseGradeProfile(engine.GradeProfileCoarse)
	}

	return combiner
}

func configuredSports(cfg *config.Config) []models.Sport {
	sports := make([]models.Sport, 0, len(cfg.Engine.Sports))
	for _, s := range cfg.Engine.Sports {
		sports = append(sports, models.Sport(s))
	}
	return sports
}
