// Package main runs a single reminder sweep: every user with an enabled
// reminder and at least one due card gets a push notification. It is meant
// to be triggered by an external scheduler such as a cron job.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prepmate/prepmate-api/internal/config"
	"github.com/prepmate/prepmate-api/internal/platform/database"
	"github.com/prepmate/prepmate-api/internal/platform/expo"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service/reminder"
	"github.com/prepmate/prepmate-api/internal/service/review"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("reminder sweep failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log = log.With(slog.String("process", "reminder-worker"))

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	_, err = sweep(ctx, cfg, db, expo.NewNotifier(cfg.Reminder.ExpoPushURL, log), log)
	return err
}

// sweep runs one reminder sweep against db.
func sweep(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	notifier reminder.Notifier,
	log *slog.Logger,
) (reminder.Result, error) {
	reviews := review.NewService(db.Stores, db.Tx, nil, nil, review.Config{
		DefaultLimit: cfg.Review.DefaultLimit,
		MaxLimit:     cfg.Review.MaxLimit,
	}, log)
	sweeper := reminder.NewSweeper(db.Stores.Reminders, reviews, notifier, reminder.SweepConfigFrom(cfg.Reminder), log)

	res, err := sweeper.Sweep(ctx)
	if err != nil {
		return res, fmt.Errorf("sweep stopped early after %d sent: %w", res.Sent, err)
	}
	return res, nil
}
