// Package reminder stores daily revision reminders and sends them.
//
// A Sweeper walks every enabled reminder, asks the review service how many
// cards the user has due and hands a notification to a Notifier when there
// is something to revise. Sweeps run from a cron Scheduler inside the server
// or once from the reminder worker command.
package reminder

import (
	"context"
	"log/slog"
	"strings"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/store"
)

const serviceName = "reminder"

// Service reads and writes a user's reminder settings.
type Service interface {
	// Set creates or replaces the user's reminder.
	Set(ctx context.Context, userID, pushToken, timeOfDay string, enabled bool) (*domain.Reminder, error)
	// Get returns store.ErrReminderNotFound when the user has no reminder.
	Get(ctx context.Context, userID string) (*domain.Reminder, error)
}

type serviceImpl struct {
	reminders store.ReminderStore
	clock     service.Clock
	logger    *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a reminder Service. A nil clock uses the system clock.
func NewService(reminders store.ReminderStore, clock service.Clock, logger *slog.Logger) Service {
	if reminders == nil {
		panic("reminders cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		reminders: reminders,
		clock:     service.OrSystem(clock),
		logger:    logger.With(slog.String("component", "reminder_service")),
	}
}

func (s *serviceImpl) Set(
	ctx context.Context,
	userID, pushToken, timeOfDay string,
	enabled bool,
) (*domain.Reminder, error) {
	r := &domain.Reminder{
		UserID:    userID,
		PushToken: strings.TrimSpace(pushToken),
		TimeOfDay: timeOfDay,
		Enabled:   enabled,
		UpdatedAt: s.clock.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.reminders.Upsert(ctx, r); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save reminder",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, service.Wrap(serviceName, "set", "failed to save reminder", err)
	}
	return r, nil
}

func (s *serviceImpl) Get(ctx context.Context, userID string) (*domain.Reminder, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	r, err := s.reminders.GetByUser(ctx, userID)
	if err != nil {
		return nil, service.Wrap(serviceName, "get", "failed to load reminder", err)
	}
	return r, nil
}
