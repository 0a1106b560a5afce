package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "generic not found", err: ErrNotFound, expected: true},
		{name: "habit not found", err: ErrHabitNotFound, expected: true},
		{name: "wrapped deck not found", err: fmt.Errorf("lookup: %w", ErrDeckNotFound), expected: true},
		{
			name:     "store error wrapping progress not found",
			err:      NewStoreError("progress", "get", "no row", ErrProgressNotFound),
			expected: true,
		},
		{name: "duplicate is not not-found", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	withCause := NewStoreError("habit", "update", "database error", ErrDuplicate)
	assert.Equal(t, "update operation on habit failed: database error: entity already exists", withCause.Error())
	assert.ErrorIs(t, withCause, ErrDuplicate)

	var target *StoreError
	assert.True(t, errors.As(fmt.Errorf("service: %w", withCause), &target))
	assert.Equal(t, "habit", target.Entity)

	noCause := NewStoreError("deck", "delete", "nothing deleted", nil)
	assert.Equal(t, "delete operation on deck failed: nothing deleted", noCause.Error())
	assert.NoError(t, noCause.Unwrap())
}
