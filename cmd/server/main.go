package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftforge/draftforge/internal/api"
	"github.com/draftforge/draftforge/internal/auth"
	"github.com/draftforge/draftforge/internal/database"
	"github.com/draftforge/draftforge/internal/mailer"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/draftforge/draftforge/internal/tasks"
	"github.com/draftforge/draftforge/pkg/config"
	"github.com/draftforge/draftforge/pkg/queue"
	"github.com/draftforge/draftforge/pkg/util"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting DraftForge server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
		"store", cfg.Store.Driver,
	)

	// Build the record store. The backend is a configuration choice;
	// everything above this point sees the same interface.
	var (
		recordStore store.Store
		db          *gorm.DB
	)
	if cfg.Store.Driver == "memory" {
		recordStore = store.NewMemory()
	} else {
		db, err = database.Connect(&cfg.Store, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		recordStore = store.NewGorm(db)
	}

	// Connect to Redis (optional; enables queued email delivery)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis, email delivery will run inline", "error", err)
		redisClient = nil
	}

	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = queue.NewClient(&cfg.Redis)
	}

	// Pick the notification gateway: queued when Redis is up, inline
	// SMTP otherwise, disabled entirely when SMTP is not configured.
	var notifier mailer.Notifier = mailer.Noop{Logger: logger}
	if cfg.SMTP.Enabled() {
		if asynqClient != nil {
			notifier = tasks.NewQueueNotifier(asynqClient)
		} else {
			smtp, err := mailer.NewSMTP(cfg, logger)
			if err != nil {
				logger.Error("failed to create smtp client", "error", err)
				os.Exit(1)
			}
			notifier = smtp
		}
	} else {
		logger.Warn("SMTP not configured, email delivery disabled")
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(recordStore, jwtService, notifier, logger)

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Store:          recordStore,
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		JWTService:     jwtService,
		AuthService:    authService,
		FrontendURL:    cfg.Server.FrontendURL,
		SMTPConfigured: cfg.SMTP.Enabled(),
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if db != nil {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
