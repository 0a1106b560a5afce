package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prepmate/prepmate-api/internal/config"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service/review"
	"github.com/prepmate/prepmate-api/internal/store"
	"golang.org/x/time/rate"
)

// Sweep defaults.
const (
	DefaultBatchSize = 100
	DefaultDueLimit  = 20
	DefaultInterval  = 100 * time.Millisecond
	DefaultTitle     = "PrepMate Reminder 🔔"
)

// DueResolver reports the cards a user should review now.
type DueResolver interface {
	DueCards(ctx context.Context, userID string, limit int) ([]review.DueItem, error)
}

// SweepConfig controls a Sweeper. Zero values select the defaults, except
// Interval where a negative value disables pacing.
type SweepConfig struct {
	BatchSize int
	DueLimit  int
	Interval  time.Duration
	Title     string
}

// SweepConfigFrom maps the reminder configuration section. An interval of
// zero in the configuration disables pacing.
func SweepConfigFrom(cfg config.ReminderConfig) SweepConfig {
	interval := time.Duration(cfg.IntervalMS) * time.Millisecond
	if interval == 0 {
		interval = -1
	}
	return SweepConfig{
		BatchSize: cfg.BatchSize,
		DueLimit:  cfg.DueLimit,
		Interval:  interval,
		Title:     cfg.Title,
	}
}

// Result counts what a sweep did.
type Result struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Sweeper sends due-card reminders to every user with an enabled reminder.
type Sweeper struct {
	reminders store.ReminderStore
	due       DueResolver
	notifier  Notifier
	limiter   *rate.Limiter
	cfg       SweepConfig
	logger    *slog.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(
	reminders store.ReminderStore,
	due DueResolver,
	notifier Notifier,
	cfg SweepConfig,
	logger *slog.Logger,
) *Sweeper {
	if reminders == nil {
		panic("reminders cannot be nil")
	}
	if due == nil {
		panic("due resolver cannot be nil")
	}
	if notifier == nil {
		panic("notifier cannot be nil")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.DueLimit <= 0 {
		cfg.DueLimit = DefaultDueLimit
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &Sweeper{
		reminders: reminders,
		due:       due,
		notifier:  notifier,
		limiter:   rate.NewLimiter(limit, 1),
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "reminder_sweeper")),
	}
}

// Sweep notifies every enabled reminder's user that has due progress
// records; users offered only deck fallback cards are skipped. Users are
// visited one at a time in user ID order. A failure for one user is
// logged and counted without stopping the sweep; only a failure to list
// reminders or a cancelled ctx ends it early, returning the partial result.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	var res Result

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch, err := s.reminders.ListEnabled(ctx, after, s.cfg.BatchSize)
		if err != nil {
			log.Error("failed to list enabled reminders", slog.String("error", err.Error()))
			return res, fmt.Errorf("failed to list enabled reminders: %w", err)
		}

		for _, r := range batch {
			if err := ctx.Err(); err != nil {
				log.Warn("reminder sweep cancelled",
					slog.Int("sent", res.Sent),
					slog.Int("skipped", res.Skipped),
					slog.Int("failed", res.Failed))
				return res, err
			}

			items, err := s.due.DueCards(ctx, r.UserID, s.cfg.DueLimit)
			if err != nil {
				log.Error("failed to resolve due cards",
					slog.String("error", err.Error()),
					slog.String("user_id", r.UserID))
				res.Failed++
				continue
			}
			due := countDue(items)
			if due == 0 {
				res.Skipped++
				continue
			}

			if err := s.limiter.Wait(ctx); err != nil {
				return res, err
			}
			err = s.notifier.Notify(ctx, Notification{
				To:       r.PushToken,
				Title:    s.cfg.Title,
				Body:     DueMessage(due),
				DueCount: due,
			})
			if err != nil {
				log.Error("failed to send reminder",
					slog.String("error", err.Error()),
					slog.String("user_id", r.UserID))
				res.Failed++
				continue
			}
			res.Sent++
		}

		if len(batch) < s.cfg.BatchSize {
			break
		}
		after = batch[len(batch)-1].UserID
	}

	log.Info("reminder sweep finished",
		slog.Int("sent", res.Sent),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return res, nil
}

// countDue counts items backed by a progress record. Deck fallback items are
// suggestions for users with nothing due and never trigger a reminder.
func countDue(items []review.DueItem) int {
	n := 0
	for _, item := range items {
		if !item.Fallback {
			n++
		}
	}
	return n
}
