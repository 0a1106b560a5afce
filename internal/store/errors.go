package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Entity-specific
// not-found errors wrap ErrNotFound.
var (
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("entity already exists")
	// ErrInvalidEntity reports a record that failed validation or a
	// database constraint.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrTransactionFailed reports a failure to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrProgressNotFound  = fmt.Errorf("%w: progress record", ErrNotFound)
	ErrDeckNotFound      = fmt.Errorf("%w: deck", ErrNotFound)
	ErrHabitNotFound     = fmt.Errorf("%w: habit", ErrNotFound)
	ErrReminderNotFound  = fmt.Errorf("%w: reminder", ErrNotFound)
	ErrStudyPlanNotFound = fmt.Errorf("%w: study plan", ErrNotFound)
)

// IsNotFoundError reports whether err wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError adds entity and operation context to a driver error.
type StoreError struct {
	Entity    string // The entity type (e.g., "habit", "progress")
	Operation string // The operation that failed (e.g., "create", "upsert")
	Message   string // Error message
	Err       error  // Original error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
