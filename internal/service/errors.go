package service

import (
	"errors"
	"fmt"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/store"
)

// ErrNotOwned indicates a resource is owned by a different user than the one
// making the request. It matches domain.ErrUnauthorized.
var ErrNotOwned = fmt.Errorf("%w: resource is owned by another user", domain.ErrUnauthorized)

// ServiceError wraps failures of a service operation with context.
type ServiceError struct {
	Service   string // e.g. "review"
	Operation string // e.g. "due_cards"
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	prefix := fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	if e.Message != "" {
		prefix += ": " + e.Message
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Message: message, Err: err}
}

// IsExpected reports whether err is a condition callers handle directly
// rather than an infrastructure failure: invalid input, a missing entity or
// an ownership violation.
func IsExpected(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		store.IsNotFoundError(err)
}

// Wrap returns expected errors unchanged and wraps everything else in a
// ServiceError. A nil err yields nil.
func Wrap(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if IsExpected(err) {
		return err
	}
	var se *ServiceError
	if errors.As(err, &se) && se.Service == service {
		return err
	}
	return NewServiceError(service, operation, message, err)
}
