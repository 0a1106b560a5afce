package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// PostgresHabitStore implements the store.HabitStore interface.
type PostgresHabitStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHabitStore creates a new PostgreSQL implementation of the HabitStore interface.
func NewPostgresHabitStore(db store.DBTX, logger *slog.Logger) *PostgresHabitStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresHabitStore{
		db:     db,
		logger: logger.With(slog.String("component", "habit_store")),
	}
}

var _ store.HabitStore = (*PostgresHabitStore)(nil)

const habitColumns = `id, user_id, title, goal_type, goal_value, frequency, custom_days,
	stack_cue, reminder_time, timezone, active, current_streak, longest_streak,
	last_completed_at, missed_yesterday, created_at, updated_at`

func scanHabit(row interface{ Scan(...any) error }) (*domain.Habit, error) {
	var h domain.Habit
	var goalType, frequency string
	var customDays []byte
	var lastCompleted sql.NullTime

	if err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Title,
		&goalType,
		&h.GoalValue,
		&frequency,
		&customDays,
		&h.StackCue,
		&h.ReminderTime,
		&h.Timezone,
		&h.Active,
		&h.CurrentStreak,
		&h.LongestStreak,
		&lastCompleted,
		&h.MissedYesterday,
		&h.CreatedAt,
		&h.UpdatedAt,
	); err != nil {
		return nil, err
	}

	h.GoalType = domain.GoalType(goalType)
	h.Frequency = domain.Frequency(frequency)
	if len(customDays) > 0 {
		if err := json.Unmarshal(customDays, &h.CustomDays); err != nil {
			return nil, fmt.Errorf("failed to decode custom days of habit %s: %w", h.ID, err)
		}
	}
	if lastCompleted.Valid {
		t := lastCompleted.Time.UTC()
		h.LastCompletedAt = &t
	}
	return &h, nil
}

func encodeDays(days []string) (string, error) {
	if days == nil {
		days = []string{}
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("failed to encode custom days: %w", err)
	}
	return string(b), nil
}

func nullTime(t *domain.Habit) sql.NullTime {
	if t.LastCompletedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.LastCompletedAt.UTC(), Valid: true}
}

// Create implements store.HabitStore.Create
func (s *PostgresHabitStore) Create(ctx context.Context, h *domain.Habit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := h.Validate(); err != nil {
		log.Warn("habit validation failed during create",
			slog.String("error", err.Error()),
			slog.String("habit_id", h.ID))
		return err
	}
	days, err := encodeDays(h.CustomDays)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		h.ID, h.UserID, h.Title, string(h.GoalType), h.GoalValue, string(h.Frequency), days,
		h.StackCue, h.ReminderTime, h.Timezone, h.Active, h.CurrentStreak, h.LongestStreak,
		nullTime(h), h.MissedYesterday, h.CreatedAt.UTC(), h.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to create habit",
			slog.String("error", err.Error()),
			slog.String("habit_id", h.ID),
			slog.String("user_id", h.UserID))
		return storeError("habit", "create", err)
	}

	log.Info("habit created successfully",
		slog.String("habit_id", h.ID),
		slog.String("user_id", h.UserID))
	return nil
}

func (s *PostgresHabitStore) get(ctx context.Context, id, suffix, op string) (*domain.Habit, error) {
	h, err := scanHabit(s.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = $1`+suffix, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrHabitNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get habit",
			slog.String("error", err.Error()),
			slog.String("habit_id", id),
			slog.String("operation", op))
		return nil, storeError("habit", op, err)
	}
	return h, nil
}

// GetByID implements store.HabitStore.GetByID
func (s *PostgresHabitStore) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return s.get(ctx, id, "", "get")
}

// GetForUpdate implements store.HabitStore.GetForUpdate with a row lock.
func (s *PostgresHabitStore) GetForUpdate(ctx context.Context, id string) (*domain.Habit, error) {
	return s.get(ctx, id, " FOR UPDATE", "get_for_update")
}

// ListByUser implements store.HabitStore.ListByUser
func (s *PostgresHabitStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list habits",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, storeError("habit", "list", err)
	}
	defer func() { _ = rows.Close() }()

	habits := []*domain.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, storeError("habit", "list", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("habit", "list", err)
	}
	return habits, nil
}

// Update implements store.HabitStore.Update
func (s *PostgresHabitStore) Update(ctx context.Context, h *domain.Habit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := h.Validate(); err != nil {
		log.Warn("habit validation failed during update",
			slog.String("error", err.Error()),
			slog.String("habit_id", h.ID))
		return err
	}
	days, err := encodeDays(h.CustomDays)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET
			title = $2, goal_type = $3, goal_value = $4, frequency = $5, custom_days = $6,
			stack_cue = $7, reminder_time = $8, timezone = $9, active = $10,
			current_streak = $11, longest_streak = $12, last_completed_at = $13,
			missed_yesterday = $14, updated_at = $15
		WHERE id = $1`,
		h.ID, h.Title, string(h.GoalType), h.GoalValue, string(h.Frequency), days,
		h.StackCue, h.ReminderTime, h.Timezone, h.Active,
		h.CurrentStreak, h.LongestStreak, nullTime(h),
		h.MissedYesterday, h.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to update habit",
			slog.String("error", err.Error()),
			slog.String("habit_id", h.ID))
		return storeError("habit", "update", err)
	}
	if err := CheckRowsAffected(result, store.ErrHabitNotFound); err != nil {
		return err
	}

	log.Debug("habit updated",
		slog.String("habit_id", h.ID),
		slog.Int("current_streak", h.CurrentStreak),
		slog.Int("longest_streak", h.LongestStreak))
	return nil
}

// Delete implements store.HabitStore.Delete. Check-ins are removed by
// the ON DELETE CASCADE foreign key.
func (s *PostgresHabitStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete habit",
			slog.String("error", err.Error()),
			slog.String("habit_id", id))
		return storeError("habit", "delete", err)
	}
	if err := CheckRowsAffected(result, store.ErrHabitNotFound); err != nil {
		return err
	}

	log.Info("habit deleted successfully", slog.String("habit_id", id))
	return nil
}
