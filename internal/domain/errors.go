package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidInput is returned when a caller supplies a malformed value or
	// omits a required identifier. It is always returned before any store
	// access and is never worth retrying.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when an entity does not belong to the
	// calling user. It is returned before any mutation takes place.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrEmptyUserID is returned when a user ID is missing.
	ErrEmptyUserID = fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)

	// ErrInvalidTimeOfDay is returned when a clock time is not in HH:MM format.
	ErrInvalidTimeOfDay = fmt.Errorf("%w: time must be in HH:MM format", ErrInvalidInput)
)

// IsInvalidInput reports whether err is, or wraps, ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
