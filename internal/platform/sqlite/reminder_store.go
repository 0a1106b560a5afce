package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/store"
)

// ReminderStore implements store.ReminderStore on SQLite.
type ReminderStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewReminderStore creates a ReminderStore bound to db.
func NewReminderStore(db sqlx.ExtContext, logger *slog.Logger) *ReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderStore{db: db, logger: logger.With(slog.String("component", "reminder_store"))}
}

var _ store.ReminderStore = (*ReminderStore)(nil)

const reminderColumns = `user_id, push_token, time_of_day, enabled, updated_at`

// Upsert implements store.ReminderStore.Upsert
func (s *ReminderStore) Upsert(ctx context.Context, r *domain.Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (`+reminderColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			push_token = excluded.push_token,
			time_of_day = excluded.time_of_day,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		r.UserID, r.PushToken, r.TimeOfDay, r.Enabled, r.UpdatedAt.UTC())
	if err != nil {
		return storeError("reminder", "upsert", err)
	}
	return nil
}

// GetByUser implements store.ReminderStore.GetByUser
func (s *ReminderStore) GetByUser(ctx context.Context, userID string) (*domain.Reminder, error) {
	var r domain.Reminder
	err := sqlx.GetContext(ctx, s.db, &r,
		`SELECT `+reminderColumns+` FROM reminders WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReminderNotFound
		}
		return nil, storeError("reminder", "get", err)
	}
	return &r, nil
}

// ListEnabled implements store.ReminderStore.ListEnabled
func (s *ReminderStore) ListEnabled(ctx context.Context, afterUserID string, limit int) ([]*domain.Reminder, error) {
	reminders := []*domain.Reminder{}
	err := sqlx.SelectContext(ctx, s.db, &reminders, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE enabled = 1 AND user_id > ?
		ORDER BY user_id
		LIMIT ?`,
		afterUserID, limit)
	if err != nil {
		return nil, storeError("reminder", "list_enabled", err)
	}
	return reminders, nil
}
