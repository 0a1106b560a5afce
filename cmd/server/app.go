package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prepmate/prepmate-api/internal/config"
	"github.com/prepmate/prepmate-api/internal/generation"
	"github.com/prepmate/prepmate-api/internal/platform/database"
	"github.com/prepmate/prepmate-api/internal/platform/expo"
	"github.com/prepmate/prepmate-api/internal/platform/gemini"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/service/habit"
	"github.com/prepmate/prepmate-api/internal/service/reminder"
	"github.com/prepmate/prepmate-api/internal/service/review"
	"github.com/prepmate/prepmate-api/internal/service/study"
	"github.com/prepmate/prepmate-api/internal/store"
)

// sweepTimeout bounds a single scheduled reminder sweep.
const sweepTimeout = 30 * time.Minute

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *database.DB

	reviewService   review.Service
	deckService     service.DeckService
	habitService    habit.Service
	reminderService reminder.Service
	studyService    study.Service

	// scheduler is nil when no reminder schedule is configured.
	scheduler *reminder.Scheduler
}

// newApplication wires stores, services and the reminder scheduler.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *database.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.reviewService = review.NewService(db.Stores, db.Tx, nil, nil, review.Config{
		DefaultLimit: cfg.Review.DefaultLimit,
		MaxLimit:     cfg.Review.MaxLimit,
	}, logger)
	app.deckService = service.NewDeckService(db.Stores.Decks, nil, logger)
	app.habitService = habit.NewService(db.Stores, db.Tx, nil, habit.Config{
		StatsWindowDays: cfg.Habit.StatsWindowDays,
	}, logger)
	app.reminderService = reminder.NewService(db.Stores.Reminders, nil, logger)

	generator, extractor, err := newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	app.studyService = study.NewService(generator, extractor, app.deckService, db.Stores.StudyPlans, nil, logger)

	if cfg.Reminder.Schedule != "" {
		app.scheduler, err = newReminderScheduler(cfg.Reminder, db.Stores.Reminders, app.reviewService, logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("application initialized successfully",
		slog.Bool("study_assistant_enabled", cfg.LLM.GeminiAPIKey != ""),
		slog.Bool("reminder_schedule_enabled", app.scheduler != nil))
	return app, nil
}

// newGenerator returns the Gemini client, or generation.Disabled when no
// API key is configured.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, generation.TextExtractor, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini API key not configured, study assistant endpoints are disabled")
		return generation.Disabled{}, generation.Disabled{}, nil
	}
	g, err := gemini.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", slog.String("model", cfg.ModelName))
	return g, g, nil
}

func newReminderScheduler(
	cfg config.ReminderConfig,
	reminders store.ReminderStore,
	due reminder.DueResolver,
	logger *slog.Logger,
) (*reminder.Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder timezone %q: %w", cfg.Timezone, err)
	}

	sweeper := reminder.NewSweeper(
		reminders,
		due,
		expo.NewNotifier(cfg.ExpoPushURL, logger),
		reminder.SweepConfigFrom(cfg),
		logger,
	)
	scheduler := reminder.NewScheduler(loc, logger)
	if _, err := scheduler.ScheduleSweep(cfg.Schedule, sweeper, sweepTimeout); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", cfg.Schedule, err)
	}
	logger.Info("reminder sweep scheduled",
		slog.String("schedule", cfg.Schedule),
		slog.String("timezone", cfg.Timezone))
	return scheduler, nil
}

// Run serves HTTP until ctx is cancelled, then shuts everything down.
func (app *application) Run(ctx context.Context) error {
	if app.scheduler != nil {
		app.scheduler.Start()
	}

	router := app.setupRouter()
	err := app.startHTTPServer(ctx, router)
	app.cleanup()
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout())
		if err := app.scheduler.Stop(ctx); err != nil {
			app.logger.Warn("reminder sweep still running at shutdown", slog.String("error", err.Error()))
		}
		cancel()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}

func (app *application) shutdownTimeout() time.Duration {
	if s := app.config.Server.ShutdownTimeoutSeconds; s > 0 {
		return time.Duration(s) * time.Second
	}
	return 10 * time.Second
}
