package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/prepmate/prepmate-api/internal/store"
)

// NewStores binds every PostgreSQL store to db, which may be a pool or a transaction.
func NewStores(db store.DBTX, logger *slog.Logger) store.Stores {
	return store.Stores{
		Progress:   NewPostgresProgressStore(db, logger),
		Decks:      NewPostgresDeckStore(db, logger),
		Habits:     NewPostgresHabitStore(db, logger),
		CheckIns:   NewPostgresCheckInStore(db, logger),
		Reminders:  NewPostgresReminderStore(db, logger),
		StudyPlans: NewPostgresStudyPlanStore(db, logger),
	}
}

// Transactor implements store.Transactor on top of store.RunInTransaction.
type Transactor struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTransactor creates a Transactor for db.
func NewTransactor(db *sql.DB, logger *slog.Logger) *Transactor {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transactor{db: db, logger: logger}
}

var _ store.Transactor = (*Transactor)(nil)

// WithinTx implements store.Transactor.WithinTx
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Stores) error) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewStores(tx, t.logger))
	})
}
