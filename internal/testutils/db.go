package testutils

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/platform/sqlite"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/stretchr/testify/require"
)

// NewSQLiteDB opens a migrated in-memory SQLite database that is closed when
// the test finishes.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:", logger.DiscardLogger())
	require.NoError(t, err, "failed to open in-memory sqlite")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewSQLiteStores returns stores bound to a fresh in-memory database together
// with a transactor over the same database.
func NewSQLiteStores(t *testing.T) (store.Stores, store.Transactor) {
	t.Helper()
	db := NewSQLiteDB(t)
	log := logger.DiscardLogger()
	return sqlite.NewStores(db, log), sqlite.NewTransactor(db, log)
}
