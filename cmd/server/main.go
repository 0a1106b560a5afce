// Package main implements the entry point for the PrepMate API server,
// which serves spaced repetition review, habit tracking, reminders and the
// study assistant over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prepmate/prepmate-api/internal/config"
	"github.com/prepmate/prepmate-api/internal/platform/database"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply pending database migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateOnly); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, opens the database and either migrates it or
// serves until ctx is cancelled.
func run(ctx context.Context, migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if migrateOnly {
		defer func() { _ = db.Close() }()
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations complete")
		return nil
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
