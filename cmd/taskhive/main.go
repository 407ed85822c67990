package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskhive/internal/app"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskhive/pkg/config"
	"github.com/felixgeelhaar/taskhive/pkg/observability"
	"github.com/spf13/cobra"
)

func main() {
	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:          "taskhive",
		Short:        "Taskhive - collaborative task management engine",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd(cfg, logger))
	rootCmd.AddCommand(migrateCmd(cfg, logger))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine with the outbox processor and projection consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			container, err := app.NewContainer(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer container.Close()

			container.OutboxProcessor.Start(ctx)
			logger.Info("taskhive running", "driver", container.DBConn.Driver())

			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
}

func migrateCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, err := database.NewConnection(ctx, database.Config{
				URL:        cfg.DatabaseURL,
				SQLitePath: cfg.SQLitePath,
				MaxConns:   cfg.DBMaxConns,
			})
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer conn.Close()

			if err := migrations.Run(ctx, conn); err != nil {
				return err
			}
			logger.Info("migrations applied", "driver", conn.Driver())
			return nil
		},
	}
}
