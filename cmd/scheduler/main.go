package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rhizano/era-beacon-api/internal/config"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/database"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/modules/notifications"
	"github.com/rhizano/era-beacon-api/internal/scheduler"
)

// Standalone absence-notification daemon. Authenticates against the API,
// sweeps for employees without a recent beacon detection, and pushes
// "No Presence Detected!" notifications on a threshold-driven interval.
func main() {
	// Load configuration first and validate before any resource initialization
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration loading failed: %v", err)
	}
	if err := cfg.ValidateScheduler(); err != nil {
		log.Fatalf("Scheduler configuration invalid: %v", err)
	}
	if !cfg.Scheduler.Enabled {
		log.Println("Scheduler is disabled (SCHEDULER_ENABLED=false), exiting")
		return
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Failed to sync logger: %v", err)
		}
	}()

	ctx := context.Background()

	var serverLog *observability.ServerLog
	if cfg.ServerLog.Enabled && cfg.ServerLog.Path != "" {
		dedicated, err := observability.NewDedicatedServerLog(cfg.ServerLog.Path, cfg.ServerLog.Format)
		if err != nil {
			logger.Warn(ctx, "Failed to initialize dedicated server log, falling back to application logger",
				zap.String("path", cfg.ServerLog.Path),
				zap.Error(err))
			serverLog = observability.NewServerLog(logger)
		} else {
			serverLog = dedicated
		}
	} else {
		serverLog = observability.NewServerLog(logger)
	}
	defer func() {
		if err := serverLog.Close(); err != nil {
			logger.Warn(ctx, "Failed to close server log", zap.Error(err))
		}
	}()

	metrics := observability.NewMetrics()

	db, err := database.NewMariaDB(ctx, &cfg.Database, metrics, logger)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "Failed to close database", zap.Error(err))
		}
	}()

	var queryDB database.DBTX = db.DB
	if cfg.Database.CircuitBreaker.Enabled {
		queryDB = database.NewBreakerDB(db.DB, cfg.Database.CircuitBreaker, metrics, logger)
	}

	store := notifications.NewStore(queryDB, cfg.StoreLocation())
	tokens := scheduler.NewTokenManager(
		cfg.Scheduler.APIBaseURL,
		cfg.Scheduler.AuthUsername,
		cfg.Scheduler.AuthPassword,
		logger, serverLog, metrics,
	)
	pushClient := notifications.NewPushClient(cfg.Push.Endpoint, cfg.Push.Timeout, tokens, logger)
	processor := scheduler.NewProcessor(store, pushClient, logger, serverLog, metrics)
	runner := scheduler.NewRunner(processor, tokens,
		cfg.Scheduler.WeekdayStartHour,
		cfg.Scheduler.WeekdayEndHour,
		logger, serverLog,
	)
	loop := scheduler.NewLoop(runner, tokens,
		cfg.Scheduler.ThresholdMinutes,
		cfg.Scheduler.MisfireGrace,
		logger, serverLog, metrics,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info(runCtx, "Shutdown signal received, finishing in-flight cycle", zap.String("signal", sig.String()))
		loop.Stop()
	}()

	loop.Run(runCtx)
	logger.Info(ctx, "Scheduler stopped")
}
