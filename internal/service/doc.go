// Package service contains the application use cases. Each subpackage owns
// one feature area (review, habit, reminder, study) and coordinates domain
// logic with the stores defined in internal/store.
//
// This package holds what the feature services share: the ServiceError type,
// the ownership sentinel, the clock abstraction and the deck use cases.
//
// Error handling principles:
//  1. Validation failures are returned as domain sentinels (ErrInvalidInput).
//  2. Expected conditions (not found, not owned) are returned so that
//     errors.Is matches them through any wrapping.
//  3. Unexpected store failures are wrapped in *ServiceError naming the
//     operation that failed.
//  4. The API layer maps errors to HTTP status codes.
package service
