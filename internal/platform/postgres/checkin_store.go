package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// PostgresCheckInStore implements the store.CheckInStore interface.
type PostgresCheckInStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCheckInStore creates a new PostgreSQL implementation of the CheckInStore interface.
func NewPostgresCheckInStore(db store.DBTX, logger *slog.Logger) *PostgresCheckInStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCheckInStore{
		db:     db,
		logger: logger.With(slog.String("component", "checkin_store")),
	}
}

var _ store.CheckInStore = (*PostgresCheckInStore)(nil)

const checkInColumns = `id, habit_id, user_id, completed, mood, time_spent, daily_win, completed_at, created_at`

// Create implements store.CheckInStore.Create
func (s *PostgresCheckInStore) Create(ctx context.Context, c *domain.CheckIn) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		log.Warn("check-in validation failed during create",
			slog.String("error", err.Error()),
			slog.String("habit_id", c.HabitID))
		return err
	}

	var mood sql.NullString
	if c.Mood != "" {
		mood = sql.NullString{String: string(c.Mood), Valid: true}
	}
	var spent sql.NullInt64
	if c.TimeSpent != nil {
		spent = sql.NullInt64{Int64: int64(*c.TimeSpent), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO check_ins (`+checkInColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.HabitID, c.UserID, c.Completed, mood, spent, c.DailyWin,
		c.CompletedAt.UTC(), c.CreatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to create check-in",
			slog.String("error", err.Error()),
			slog.String("habit_id", c.HabitID))
		return storeError("check_in", "create", err)
	}
	return nil
}

// ListByHabit implements store.CheckInStore.ListByHabit
func (s *PostgresCheckInStore) ListByHabit(ctx context.Context, habitID string, since time.Time) ([]*domain.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+checkInColumns+`
		FROM check_ins
		WHERE habit_id = $1 AND completed_at >= $2
		ORDER BY completed_at DESC, id DESC`,
		habitID, since.UTC(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list check-ins",
			slog.String("error", err.Error()),
			slog.String("habit_id", habitID))
		return nil, storeError("check_in", "list", err)
	}
	defer func() { _ = rows.Close() }()

	checkIns := []*domain.CheckIn{}
	for rows.Next() {
		var c domain.CheckIn
		var mood sql.NullString
		var spent sql.NullInt64
		if err := rows.Scan(
			&c.ID, &c.HabitID, &c.UserID, &c.Completed, &mood, &spent,
			&c.DailyWin, &c.CompletedAt, &c.CreatedAt,
		); err != nil {
			return nil, storeError("check_in", "list", err)
		}
		c.Mood = domain.Mood(mood.String)
		if spent.Valid {
			v := int(spent.Int64)
			c.TimeSpent = &v
		}
		checkIns = append(checkIns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("check_in", "list", err)
	}
	return checkIns, nil
}

// Counts implements store.CheckInStore.Counts
func (s *PostgresCheckInStore) Counts(ctx context.Context, habitID string) (domain.CheckInCounts, error) {
	var counts domain.CheckInCounts
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE completed) FROM check_ins WHERE habit_id = $1`,
		habitID,
	).Scan(&counts.Total, &counts.Completed)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count check-ins",
			slog.String("error", err.Error()),
			slog.String("habit_id", habitID))
		return domain.CheckInCounts{}, storeError("check_in", "count", err)
	}
	return counts, nil
}
