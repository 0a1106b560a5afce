package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prepmate/prepmate-api/internal/store"
)

// constraintErrors maps PostgreSQL SQLSTATE codes to store sentinels.
var constraintErrors = map[string]error{
	"23505": store.ErrDuplicate,     // unique_violation
	"23503": store.ErrInvalidEntity, // foreign_key_violation
	"23514": store.ErrInvalidEntity, // check_violation
	"23502": store.ErrInvalidEntity, // not_null_violation
}

// MapError wraps err with the store sentinel matching its SQLSTATE.
// Unrecognized errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	sentinel, ok := constraintErrors[pgErr.Code]
	if !ok {
		return err
	}
	if pgErr.ConstraintName != "" {
		return fmt.Errorf("%w: %s: %v", sentinel, pgErr.ConstraintName, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// CheckRowsAffected returns notFound, or store.ErrNotFound when notFound is
// nil, if result reports no affected rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if notFound == nil {
		return store.ErrNotFound
	}
	return notFound
}

// storeError wraps a mapped database error with entity and operation context.
func storeError(entity, operation string, err error) error {
	return store.NewStoreError(entity, operation, "database error", MapError(err))
}
