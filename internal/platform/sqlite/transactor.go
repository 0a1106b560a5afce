package sqlite

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/store"
)

// NewStores binds every SQLite store to db.
func NewStores(db sqlx.ExtContext, logger *slog.Logger) store.Stores {
	return store.Stores{
		Progress:   NewProgressStore(db, logger),
		Decks:      NewDeckStore(db, logger),
		Habits:     NewHabitStore(db, logger),
		CheckIns:   NewCheckInStore(db, logger),
		Reminders:  NewReminderStore(db, logger),
		StudyPlans: NewStudyPlanStore(db, logger),
	}
}

// Transactor implements store.Transactor with sqlx transactions.
type Transactor struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewTransactor creates a Transactor for db.
func NewTransactor(db *sqlx.DB, logger *slog.Logger) *Transactor {
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
	begin := func(ctx context.Context) (*sqlx.Tx, error) { return t.db.BeginTxx(ctx, nil) }
	return store.RunInTx[*sqlx.Tx](ctx, begin, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, NewStores(tx, t.logger))
	})
}
