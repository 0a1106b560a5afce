package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/platform/postgres"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/prepmate/prepmate-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestConstructorsRejectNilDB(t *testing.T) {
	t.Parallel()
	log := slog.Default()
	constructors := map[string]func(){
		"progress":   func() { postgres.NewPostgresProgressStore(nil, log) },
		"deck":       func() { postgres.NewPostgresDeckStore(nil, log) },
		"habit":      func() { postgres.NewPostgresHabitStore(nil, log) },
		"check-in":   func() { postgres.NewPostgresCheckInStore(nil, log) },
		"reminder":   func() { postgres.NewPostgresReminderStore(nil, log) },
		"study plan": func() { postgres.NewPostgresStudyPlanStore(nil, log) },
		"transactor": func() { postgres.NewTransactor(nil, log) },
	}
	for name, fn := range constructors {
		assert.Panics(t, fn, name)
	}
}

func TestProgressStore_LockUsesAdvisoryLock(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresProgressStore(db, logger.DiscardLogger())

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtextextended($1, 0))")).
		WithArgs("progress:2:u1:c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Lock(context.Background(), "u1", "c1"))
}

func TestProgressStore_GetNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresProgressStore(db, logger.DiscardLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM progress WHERE user_id = $1 AND card_id = $2")).
		WithArgs("u1", "c1").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
}

func TestProgressStore_UpsertWrapsDriverErrors(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresProgressStore(db, logger.DiscardLogger())

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, card_id) DO UPDATE")).
		WillReturnError(errors.New("connection reset by peer"))

	err := s.Upsert(context.Background(), &domain.ProgressRecord{
		UserID:        "u1",
		CardID:        "c1",
		Topic:         "Optics",
		Score:         domain.ScoreRemembered,
		IntervalHours: 108,
		LastReviewed:  unitNow,
		NextReview:    unitNow.Add(108 * time.Hour),
		CreatedAt:     unitNow,
		UpdatedAt:     unitNow,
	})
	require.Error(t, err)

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "progress", storeErr.Entity)
	assert.Equal(t, "upsert", storeErr.Operation)
}

func TestDeckStore_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresDeckStore(db, logger.DiscardLogger())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO decks")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "decks_pkey"})

	err := s.Create(context.Background(), testutils.CreateDeck(t, "u1", "Optics", 2, unitNow))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestHabitStore_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresHabitStore(db, logger.DiscardLogger())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM habits WHERE id = $1")).
		WithArgs("h1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), "h1"), store.ErrHabitNotFound)
}

func TestHabitStore_GetForUpdateLocksRow(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresHabitStore(db, logger.DiscardLogger())

	mock.ExpectQuery(`FROM habits WHERE id = \$1 FOR UPDATE`).
		WithArgs("h1").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetForUpdate(context.Background(), "h1")
	assert.ErrorIs(t, err, store.ErrHabitNotFound)
}

func TestCheckInStore_Counts(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresCheckInStore(db, logger.DiscardLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FILTER (WHERE completed)")).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed"}).AddRow(5, 3))

	counts, err := s.Counts(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, domain.CheckInCounts{Total: 5, Completed: 3}, counts)
}

func TestReminderStore_ListEnabledPages(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresReminderStore(db, logger.DiscardLogger())

	rows := sqlmock.NewRows([]string{"user_id", "push_token", "time_of_day", "enabled", "updated_at"}).
		AddRow("u2", "token-u2", "08:00", true, unitNow).
		AddRow("u3", "token-u3", "19:30", true, unitNow)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE enabled AND user_id > $1")).
		WithArgs("u1", 2).
		WillReturnRows(rows)

	got, err := s.ListEnabled(context.Background(), "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].UserID)
	assert.Equal(t, "19:30", got[1].TimeOfDay)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	tx := postgres.NewTransactor(db, logger.DiscardLogger())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM decks WHERE id = $1")).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := tx.WithinTx(context.Background(), func(ctx context.Context, s store.Stores) error {
		return s.Decks.Delete(ctx, "d1")
	})
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}
