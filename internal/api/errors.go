package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prepmate/prepmate-api/internal/api/shared"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/generation"
	"github.com/prepmate/prepmate-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// The model is unreachable or not configured
	case errors.Is(err, generation.ErrDisabled),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrInvalidInput):
		return invalidInputMessage(err)

	case errors.Is(err, domain.ErrUnauthorized):
		return "You do not own this resource"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, store.ErrHabitNotFound):
		return "Habit not found"
	case errors.Is(err, store.ErrReminderNotFound):
		return "Reminder not found"
	case errors.Is(err, store.ErrStudyPlanNotFound):
		return "Study plan not found"
	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by the AI safety filters"
	case errors.Is(err, generation.ErrDisabled):
		return "AI features are not configured"
	case errors.Is(err, generation.ErrTransientFailure):
		return "AI service is temporarily unavailable, please retry"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return "AI service returned an unusable response"

	default:
		return "An unexpected error occurred"
	}
}

// invalidInputMessage finds the domain sentinel that directly wraps
// ErrInvalidInput and returns its detail. Domain sentinels carry authored,
// client-safe text.
func invalidInputMessage(err error) string {
	if sentinel := findInvalidInput(err); sentinel != nil {
		msg := strings.TrimPrefix(sentinel.Error(), domain.ErrInvalidInput.Error()+": ")
		if msg != "" {
			return strings.ToUpper(msg[:1]) + msg[1:]
		}
	}
	return "Invalid input"
}

func findInvalidInput(err error) error {
	if err == nil || err == domain.ErrInvalidInput {
		return nil
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		if u.Unwrap() == domain.ErrInvalidInput {
			return err
		}
		return findInvalidInput(u.Unwrap())
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if inner == domain.ErrInvalidInput {
				return err
			}
			if found := findInvalidInput(inner); found != nil {
				return found
			}
		}
	}
	return nil
}

// SanitizeValidationError describes the first failed field of a validator
// error without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}
	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gt", "gte":
		return "too small"
	case "max", "lt", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "url", "http_url":
		return "must be a valid URL"
	case "timezone":
		return "unknown timezone"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. When the error
// maps to a 500 and fallback is not empty, fallback replaces the generic
// message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
