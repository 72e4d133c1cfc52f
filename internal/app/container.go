package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rhizano/era-beacon-api/internal/config"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/database"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/middleware"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/infrastructure/security"
	"github.com/rhizano/era-beacon-api/internal/modules/auth"
	"github.com/rhizano/era-beacon-api/internal/modules/beacons"
	"github.com/rhizano/era-beacon-api/internal/modules/health"
	"github.com/rhizano/era-beacon-api/internal/modules/notifications"
	"github.com/rhizano/era-beacon-api/internal/modules/presence"
	"github.com/rhizano/era-beacon-api/internal/scheduler"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

type Container struct {
	Config          *config.Config
	DB              *sql.DB
	Logger          *observability.Logger
	JWTService      *security.JWTService
	PasswordService *security.PasswordService
	AuthMiddleware  *middleware.AuthMiddleware
	Validator       *validator.Validator
	Metrics         *observability.Metrics
	ServerLog       *observability.ServerLog

	AuthHandler          *auth.Handler
	BeaconHandler        *beacons.Handler
	PresenceHandler      *presence.Handler
	NotificationsHandler *notifications.Handler
	HealthHandler        *health.Handler

	rateLimiter security.RateLimiter
	redisMu     sync.RWMutex
	redisClient *redis.Client
}

func NewContainer(cfg *config.Config, db *sql.DB, logger *observability.Logger) *Container {
	metrics := observability.NewMetrics()
	jwtService := security.NewJWTService(&cfg.JWT)
	passwordService := security.NewPasswordService(cfg.Security.BcryptCost)
	validatorInstance := validator.New()

	var serverLog *observability.ServerLog
	if cfg.ServerLog.Enabled && cfg.ServerLog.Path != "" {
		dedicated, err := observability.NewDedicatedServerLog(cfg.ServerLog.Path, cfg.ServerLog.Format)
		if err != nil {
			logger.Error(context.Background(), "Failed to initialize dedicated server log, falling back to main logger",
				zap.Error(err),
				zap.String("path", cfg.ServerLog.Path),
			)
			serverLog = observability.NewServerLog(logger)
		} else {
			logger.Info(context.Background(), "Server log enabled with dedicated file",
				zap.String("path", cfg.ServerLog.Path),
				zap.String("format", cfg.ServerLog.Format),
			)
			serverLog = dedicated
		}
	} else {
		serverLog = observability.NewServerLog(logger)
	}

	var queryDB database.DBTX = db
	if cfg.Database.CircuitBreaker.Enabled {
		logger.Info(context.Background(), "Initializing database circuit breaker",
			zap.Bool("enabled", cfg.Database.CircuitBreaker.Enabled),
			zap.Uint32("max_failures", cfg.Database.CircuitBreaker.MaxFailures),
			zap.Float64("failure_threshold", cfg.Database.CircuitBreaker.FailureThreshold),
			zap.Duration("reset_timeout", cfg.Database.CircuitBreaker.ResetTimeout),
		)
		queryDB = database.NewBreakerDB(db, cfg.Database.CircuitBreaker, metrics, logger)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	authService := auth.NewService(auth.NewStore(queryDB), jwtService, passwordService)
	authHandler := auth.NewHandler(authService, validatorInstance, serverLog, metrics)

	beaconService := beacons.NewService(beacons.NewStore(queryDB), validatorInstance, logger, serverLog)
	beaconHandler := beacons.NewHandler(beaconService)

	presenceService := presence.NewService(presence.NewStore(queryDB), validatorInstance, logger, metrics)
	presenceHandler := presence.NewHandler(presenceService)

	// The API trigger runs query+dispatch with the caller's own bearer: no
	// token manager, no business-hours gate.
	absenceStore := notifications.NewStore(queryDB, cfg.StoreLocation())
	pushClient := notifications.NewPushClient(cfg.Push.Endpoint, cfg.Push.Timeout, nil, logger)
	processor := scheduler.NewProcessor(absenceStore, pushClient, logger, serverLog, metrics)
	notificationsService := notifications.NewService(
		processor, absenceStore, validatorInstance, logger, serverLog,
		cfg.Scheduler.ThresholdMinutes,
	)
	notificationsHandler := notifications.NewHandler(notificationsService)

	healthHandler := health.NewHandler(db, nil)

	return &Container{
		Config:          cfg,
		DB:              db,
		Logger:          logger,
		JWTService:      jwtService,
		PasswordService: passwordService,
		AuthMiddleware:  authMiddleware,
		Validator:       validatorInstance,
		Metrics:         metrics,
		ServerLog:       serverLog,

		AuthHandler:          authHandler,
		BeaconHandler:        beaconHandler,
		PresenceHandler:      presenceHandler,
		NotificationsHandler: notificationsHandler,
		HealthHandler:        healthHandler,
	}
}

// GetRedisClient provides a thread-safe singleton that allows retries on failure
func (c *Container) GetRedisClient() (*redis.Client, error) {
	c.redisMu.RLock()
	if c.redisClient != nil {
		client := c.redisClient
		c.redisMu.RUnlock()
		return client, nil
	}
	c.redisMu.RUnlock()

	c.redisMu.Lock()
	defer c.redisMu.Unlock()

	// Double-check after acquiring lock
	if c.redisClient != nil {
		return c.redisClient, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", c.Config.Redis.Host, c.Config.Redis.Port),
		Password:     c.Config.Redis.Password,
		DB:           c.Config.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     c.Config.Redis.PoolSize,
		MinIdleConns: c.Config.Redis.MinIdleConns,
		MaxRetries:   c.Config.Redis.MaxRetries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		c.redisClient = nil // Explicitly nullify on failure
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	c.redisClient = client
	return c.redisClient, nil
}

func (c *Container) GetRateLimiter() security.RateLimiter {
	if c.rateLimiter != nil {
		return c.rateLimiter
	}

	if c.Config.Redis.Enabled {
		client, err := c.GetRedisClient()
		if err != nil {
			// Only fatal in production, log warning in other environments
			if c.Config.Server.Env == "production" {
				c.Logger.Fatal(context.Background(),
					"Redis required for rate limiting in production but unavailable",
					zap.Error(err),
					zap.String("redis_host", c.Config.Redis.Host),
					zap.String("redis_port", c.Config.Redis.Port),
				)
			} else {
				c.Logger.Warn(context.Background(),
					"Redis connection failed, falling back to in-memory rate limiter",
					zap.Error(err),
				)
			}
		} else {
			c.Logger.Info(context.Background(),
				"Successfully connected to Redis for rate limiting",
				zap.String("redis_host", c.Config.Redis.Host),
			)
			c.HealthHandler = health.NewHandler(c.DB, client)
			c.rateLimiter = security.NewRedisRateLimiter(client)
			return c.rateLimiter
		}
	}

	// Fallback to in-memory rate limiter
	if c.Config.Server.Env == "production" && c.Config.Redis.Enabled {
		c.Logger.Warn(context.Background(),
			"Using in-memory rate limiter in production - not recommended for multi-instance deployments",
		)
	} else if !c.Config.Redis.Enabled {
		c.Logger.Info(context.Background(), "Redis disabled in configuration, using in-memory rate limiter")
	}

	c.rateLimiter = security.NewInMemoryRateLimiter()
	return c.rateLimiter
}

// Close gracefully closes all infrastructure connections
func (c *Container) Close() {
	if c.ServerLog != nil {
		if err := c.ServerLog.Close(); err != nil {
			c.Logger.Error(context.Background(), "Error closing server log", zap.Error(err))
		}
	}

	c.redisMu.Lock()
	defer c.redisMu.Unlock()

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Error(context.Background(), "Error closing DB", zap.Error(err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			c.Logger.Error(context.Background(), "Error closing Redis", zap.Error(err))
		}
		c.redisClient = nil
	}
}
