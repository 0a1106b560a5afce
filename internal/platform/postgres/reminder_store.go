package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// PostgresReminderStore implements the store.ReminderStore interface.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a new PostgreSQL implementation of the ReminderStore interface.
func NewPostgresReminderStore(db store.DBTX, logger *slog.Logger) *PostgresReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_store")),
	}
}

var _ store.ReminderStore = (*PostgresReminderStore)(nil)

const reminderColumns = `user_id, push_token, time_of_day, enabled, updated_at`

func scanReminder(row interface{ Scan(...any) error }) (*domain.Reminder, error) {
	var r domain.Reminder
	if err := row.Scan(&r.UserID, &r.PushToken, &r.TimeOfDay, &r.Enabled, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// Upsert implements store.ReminderStore.Upsert
func (s *PostgresReminderStore) Upsert(ctx context.Context, r *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := r.Validate(); err != nil {
		log.Warn("reminder validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", r.UserID))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (`+reminderColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			push_token = EXCLUDED.push_token,
			time_of_day = EXCLUDED.time_of_day,
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at`,
		r.UserID, r.PushToken, r.TimeOfDay, r.Enabled, r.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to upsert reminder",
			slog.String("error", err.Error()),
			slog.String("user_id", r.UserID))
		return storeError("reminder", "upsert", err)
	}

	log.Info("reminder saved",
		slog.String("user_id", r.UserID),
		slog.String("time", r.TimeOfDay),
		slog.Bool("enabled", r.Enabled))
	return nil
}

// GetByUser implements store.ReminderStore.GetByUser
func (s *PostgresReminderStore) GetByUser(ctx context.Context, userID string) (*domain.Reminder, error) {
	r, err := scanReminder(s.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReminderNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get reminder",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, storeError("reminder", "get", err)
	}
	return r, nil
}

// ListEnabled implements store.ReminderStore.ListEnabled
func (s *PostgresReminderStore) ListEnabled(ctx context.Context, afterUserID string, limit int) ([]*domain.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE enabled AND user_id > $1
		ORDER BY user_id
		LIMIT $2`,
		afterUserID, limit,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list enabled reminders",
			slog.String("error", err.Error()))
		return nil, storeError("reminder", "list_enabled", err)
	}
	defer func() { _ = rows.Close() }()

	reminders := []*domain.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, storeError("reminder", "list_enabled", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("reminder", "list_enabled", err)
	}
	return reminders, nil
}
