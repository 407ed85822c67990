package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/pkg/config"
	"github.com/felixgeelhaar/taskhive/pkg/observability"
)

const cleanupInterval = time.Hour

// The worker relays outbox messages to RabbitMQ for external consumers
// and prunes published rows past their retention window.
func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting taskhive worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DBMaxConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database", "driver", conn.Driver())

	var outboxRepo outbox.Repository
	if conn.Driver() == database.DriverPostgres {
		outboxRepo = outbox.NewPostgresRepository(conn)
	} else {
		outboxRepo = outbox.NewSQLiteRepository(conn)
	}

	rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	publisher := eventbus.NewBreakerPublisher(rabbit, logger)
	defer publisher.Close()
	logger.Info("event publisher initialized")

	processorConfig := outbox.DefaultProcessorConfig()
	processorConfig.PollInterval = cfg.OutboxPollInterval
	processorConfig.BatchSize = cfg.OutboxBatchSize
	processorConfig.MaxRetries = cfg.OutboxMaxRetries
	processor := outbox.NewProcessor(outboxRepo, publisher, processorConfig, logger)
	processor.Start(ctx)

	cleanupTicker := time.NewTicker(cleanupInterval)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanupTicker.C:
				deleted, err := outboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
				if err != nil {
					logger.Error("outbox cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("outbox cleanup completed",
						"deleted", deleted,
						"retention_days", cfg.OutboxRetentionDays,
					)
				}
			}
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	logger.Info("worker stopped")
}
