package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/store"
)

// CheckInStore implements store.CheckInStore on SQLite.
type CheckInStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewCheckInStore creates a CheckInStore bound to db.
func NewCheckInStore(db sqlx.ExtContext, logger *slog.Logger) *CheckInStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckInStore{db: db, logger: logger.With(slog.String("component", "checkin_store"))}
}

var _ store.CheckInStore = (*CheckInStore)(nil)

type checkInRow struct {
	ID          string         `db:"id"`
	HabitID     string         `db:"habit_id"`
	UserID      string         `db:"user_id"`
	Completed   bool           `db:"completed"`
	Mood        sql.NullString `db:"mood"`
	TimeSpent   sql.NullInt64  `db:"time_spent"`
	DailyWin    string         `db:"daily_win"`
	CompletedAt time.Time      `db:"completed_at"`
	CreatedAt   time.Time      `db:"created_at"`
}

const checkInColumns = `id, habit_id, user_id, completed, mood, time_spent, daily_win, completed_at, created_at`

// Create implements store.CheckInStore.Create
func (s *CheckInStore) Create(ctx context.Context, c *domain.CheckIn) error {
	if err := c.Validate(); err != nil {
		return err
	}
	row := checkInRow{
		ID:          c.ID,
		HabitID:     c.HabitID,
		UserID:      c.UserID,
		Completed:   c.Completed,
		Mood:        sql.NullString{String: string(c.Mood), Valid: c.Mood != ""},
		DailyWin:    c.DailyWin,
		CompletedAt: c.CompletedAt.UTC(),
		CreatedAt:   c.CreatedAt.UTC(),
	}
	if c.TimeSpent != nil {
		row.TimeSpent = sql.NullInt64{Int64: int64(*c.TimeSpent), Valid: true}
	}

	_, err := sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO check_ins (`+checkInColumns+`)
		VALUES (:id, :habit_id, :user_id, :completed, :mood, :time_spent, :daily_win, :completed_at, :created_at)`,
		row)
	if err != nil {
		s.logger.Error("failed to create check-in",
			slog.String("error", err.Error()),
			slog.String("habit_id", c.HabitID))
		return storeError("check_in", "create", err)
	}
	return nil
}

// ListByHabit implements store.CheckInStore.ListByHabit
func (s *CheckInStore) ListByHabit(ctx context.Context, habitID string, since time.Time) ([]*domain.CheckIn, error) {
	var rows []checkInRow
	err := sqlx.SelectContext(ctx, s.db, &rows, `
		SELECT `+checkInColumns+`
		FROM check_ins
		WHERE habit_id = ? AND completed_at >= ?
		ORDER BY completed_at DESC, id DESC`,
		habitID, since.UTC())
	if err != nil {
		return nil, storeError("check_in", "list", err)
	}

	checkIns := make([]*domain.CheckIn, 0, len(rows))
	for _, r := range rows {
		c := &domain.CheckIn{
			ID:          r.ID,
			HabitID:     r.HabitID,
			UserID:      r.UserID,
			Completed:   r.Completed,
			Mood:        domain.Mood(r.Mood.String),
			DailyWin:    r.DailyWin,
			CompletedAt: r.CompletedAt,
			CreatedAt:   r.CreatedAt,
		}
		if r.TimeSpent.Valid {
			v := int(r.TimeSpent.Int64)
			c.TimeSpent = &v
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, nil
}

// Counts implements store.CheckInStore.Counts
func (s *CheckInStore) Counts(ctx context.Context, habitID string) (domain.CheckInCounts, error) {
	var row struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	err := sqlx.GetContext(ctx, s.db, &row, `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed
		FROM check_ins WHERE habit_id = ?`, habitID)
	if err != nil {
		return domain.CheckInCounts{}, storeError("check_in", "count", err)
	}
	return domain.CheckInCounts{Total: row.Total, Completed: row.Completed}, nil
}
