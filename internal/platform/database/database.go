// Package database opens the configured store backend and binds the typed
// stores to it. Both binaries in cmd/ go through Open so that the driver
// switch lives in one place.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver
	"github.com/prepmate/prepmate-api/internal/config"
	"github.com/prepmate/prepmate-api/internal/platform/postgres"
	"github.com/prepmate/prepmate-api/internal/platform/sqlite"
	"github.com/prepmate/prepmate-api/internal/store"
)

// Supported values of config.DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = sqlite.DriverName
)

const pingTimeout = 5 * time.Second

// DB is an open database with its stores.
type DB struct {
	Driver string
	Stores store.Stores
	Tx     store.Transactor

	migrate func(ctx context.Context) error
	close   func() error
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return db.migrate(ctx)
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.close()
}

// Open connects to the database described by cfg. SQLite databases are
// migrated on open; Postgres databases are migrated by an explicit Migrate.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := max(cfg.MaxOpenConns, 1)
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(maxOpen/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", DriverPostgres),
		slog.String("url", maskURL(cfg.URL)),
		slog.Int("max_open_conns", maxOpen))

	return &DB{
		Driver: DriverPostgres,
		Stores: postgres.NewStores(db, logger),
		Tx:     postgres.NewTransactor(db, logger),
		migrate: func(ctx context.Context) error {
			return postgres.Migrate(ctx, db, logger)
		},
		close: db.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	db, err := sqlite.Open(ctx, cfg.URL, logger)
	if err != nil {
		return nil, err
	}
	return &DB{
		Driver: DriverSQLite,
		Stores: sqlite.NewStores(db, logger),
		Tx:     sqlite.NewTransactor(db, logger),
		migrate: func(ctx context.Context) error {
			return sqlite.Migrate(ctx, db, logger)
		},
		close: db.Close,
	}, nil
}

// maskURL hides the password of a connection URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url"
	}
	return u.Redacted()
}
