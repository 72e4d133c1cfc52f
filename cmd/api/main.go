package main

import (
	"context"
	"log"

	"github.com/rhizano/era-beacon-api/internal/app"
	"github.com/rhizano/era-beacon-api/internal/config"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/database"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
)

// @title           Era Beacon API
// @version         1.0
// @description     BLE beacon presence tracking and absence notification server.

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer <your_token>" (include the word Bearer and a space)
func main() {
	// Load configuration first and validate before any resource initialization
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration loading failed: %v", err)
	}

	// Initialize logger after config validation
	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Failed to sync logger: %v", err)
		}
	}()
	metrics := observability.NewMetrics()
	// Initialize database after config validation
	db, err := database.NewMariaDB(context.Background(), &cfg.Database, metrics, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	container := app.NewContainer(cfg, db.DB, logger)
	server := app.NewServer(container)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
