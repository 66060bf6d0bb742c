package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/draftforge/draftforge/internal/database"
	"github.com/draftforge/draftforge/internal/mailer"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/draftforge/draftforge/internal/tasks"
	"github.com/draftforge/draftforge/pkg/config"
	"github.com/draftforge/draftforge/pkg/queue"
	"github.com/draftforge/draftforge/pkg/util"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
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

	logger.Info("starting DraftForge worker")

	// The worker sweeps the same token tables the API writes, so it
	// needs a durable store; the memory driver only lives inside one
	// API process.
	if cfg.Store.Driver == "memory" {
		logger.Error("worker requires a durable store driver", "driver", cfg.Store.Driver)
		os.Exit(1)
	}

	db, err := database.Connect(&cfg.Store, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	recordStore := store.NewGorm(db)

	var notifier mailer.Notifier = mailer.Noop{Logger: logger}
	if cfg.SMTP.Enabled() {
		smtp, err := mailer.NewSMTP(cfg, logger)
		if err != nil {
			logger.Error("failed to create smtp client", "error", err)
			os.Exit(1)
		}
		notifier = smtp
	} else {
		logger.Warn("SMTP not configured, email tasks will be dropped")
	}

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 10)

	// Register handlers
	handler := tasks.NewHandler(recordStore, notifier, logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Periodic expired-token sweep
	scheduler := queue.NewScheduler(&cfg.Redis)
	if _, err := scheduler.Register("@every 1h", tasks.NewTokenSweepTask()); err != nil {
		logger.Error("failed to register token sweep", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
	}()

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("worker stopped")
}
