package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// HabitStore implements store.HabitStore on SQLite.
type HabitStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewHabitStore creates a HabitStore bound to db.
func NewHabitStore(db sqlx.ExtContext, logger *slog.Logger) *HabitStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HabitStore{db: db, logger: logger.With(slog.String("component", "habit_store"))}
}

var _ store.HabitStore = (*HabitStore)(nil)

type habitRow struct {
	ID              string       `db:"id"`
	UserID          string       `db:"user_id"`
	Title           string       `db:"title"`
	GoalType        string       `db:"goal_type"`
	GoalValue       int          `db:"goal_value"`
	Frequency       string       `db:"frequency"`
	CustomDays      string       `db:"custom_days"`
	StackCue        string       `db:"stack_cue"`
	ReminderTime    string       `db:"reminder_time"`
	Timezone        string       `db:"timezone"`
	Active          bool         `db:"active"`
	CurrentStreak   int          `db:"current_streak"`
	LongestStreak   int          `db:"longest_streak"`
	LastCompletedAt sql.NullTime `db:"last_completed_at"`
	MissedYesterday bool         `db:"missed_yesterday"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

func newHabitRow(h *domain.Habit) (habitRow, error) {
	days := h.CustomDays
	if days == nil {
		days = []string{}
	}
	encoded, err := json.Marshal(days)
	if err != nil {
		return habitRow{}, fmt.Errorf("failed to encode custom days: %w", err)
	}
	row := habitRow{
		ID:              h.ID,
		UserID:          h.UserID,
		Title:           h.Title,
		GoalType:        string(h.GoalType),
		GoalValue:       h.GoalValue,
		Frequency:       string(h.Frequency),
		CustomDays:      string(encoded),
		StackCue:        h.StackCue,
		ReminderTime:    h.ReminderTime,
		Timezone:        h.Timezone,
		Active:          h.Active,
		CurrentStreak:   h.CurrentStreak,
		LongestStreak:   h.LongestStreak,
		MissedYesterday: h.MissedYesterday,
		CreatedAt:       h.CreatedAt.UTC(),
		UpdatedAt:       h.UpdatedAt.UTC(),
	}
	if h.LastCompletedAt != nil {
		row.LastCompletedAt = sql.NullTime{Time: h.LastCompletedAt.UTC(), Valid: true}
	}
	return row, nil
}

func (r habitRow) toDomain() (*domain.Habit, error) {
	h := &domain.Habit{
		ID:     r.ID,
		UserID: r.UserID,
		HabitSettings: domain.HabitSettings{
			Title:        r.Title,
			GoalType:     domain.GoalType(r.GoalType),
			GoalValue:    r.GoalValue,
			Frequency:    domain.Frequency(r.Frequency),
			StackCue:     r.StackCue,
			ReminderTime: r.ReminderTime,
			Timezone:     r.Timezone,
			Active:       r.Active,
		},
		CurrentStreak:   r.CurrentStreak,
		LongestStreak:   r.LongestStreak,
		MissedYesterday: r.MissedYesterday,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.CustomDays != "" {
		if err := json.Unmarshal([]byte(r.CustomDays), &h.CustomDays); err != nil {
			return nil, fmt.Errorf("failed to decode custom days of habit %s: %w", r.ID, err)
		}
	}
	if r.LastCompletedAt.Valid {
		t := r.LastCompletedAt.Time.UTC()
		h.LastCompletedAt = &t
	}
	return h, nil
}

const habitColumns = `id, user_id, title, goal_type, goal_value, frequency, custom_days,
	stack_cue, reminder_time, timezone, active, current_streak, longest_streak,
	last_completed_at, missed_yesterday, created_at, updated_at`

// Create implements store.HabitStore.Create
func (s *HabitStore) Create(ctx context.Context, h *domain.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	row, err := newHabitRow(h)
	if err != nil {
		return err
	}

	_, err = sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (:id, :user_id, :title, :goal_type, :goal_value, :frequency, :custom_days,
			:stack_cue, :reminder_time, :timezone, :active, :current_streak, :longest_streak,
			:last_completed_at, :missed_yesterday, :created_at, :updated_at)`, row)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create habit",
			slog.String("error", err.Error()),
			slog.String("habit_id", h.ID))
		return storeError("habit", "create", err)
	}
	return nil
}

// GetByID implements store.HabitStore.GetByID
func (s *HabitStore) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var row habitRow
	err := sqlx.GetContext(ctx, s.db, &row, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrHabitNotFound
		}
		return nil, storeError("habit", "get", err)
	}
	return row.toDomain()
}

// GetForUpdate implements store.HabitStore.GetForUpdate. SQLite has no row
// locks; the enclosing transaction holds the only connection.
func (s *HabitStore) GetForUpdate(ctx context.Context, id string) (*domain.Habit, error) {
	return s.GetByID(ctx, id)
}

// ListByUser implements store.HabitStore.ListByUser
func (s *HabitStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var rows []habitRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, userID); err != nil {
		return nil, storeError("habit", "list", err)
	}
	habits := make([]*domain.Habit, 0, len(rows))
	for _, r := range rows {
		h, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// Update implements store.HabitStore.Update
func (s *HabitStore) Update(ctx context.Context, h *domain.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	row, err := newHabitRow(h)
	if err != nil {
		return err
	}

	result, err := sqlx.NamedExecContext(ctx, s.db, `
		UPDATE habits SET
			title = :title, goal_type = :goal_type, goal_value = :goal_value,
			frequency = :frequency, custom_days = :custom_days, stack_cue = :stack_cue,
			reminder_time = :reminder_time, timezone = :timezone, active = :active,
			current_streak = :current_streak, longest_streak = :longest_streak,
			last_completed_at = :last_completed_at, missed_yesterday = :missed_yesterday,
			updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update habit",
			slog.String("error", err.Error()),
			slog.String("habit_id", h.ID))
		return storeError("habit", "update", err)
	}
	return checkRowsAffected(result, store.ErrHabitNotFound)
}

// Delete implements store.HabitStore.Delete
func (s *HabitStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return storeError("habit", "delete", err)
	}
	return checkRowsAffected(result, store.ErrHabitNotFound)
}
