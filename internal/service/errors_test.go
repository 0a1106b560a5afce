package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	t.Parallel()

	underlying := errors.New("connection reset")
	err := NewServiceError("review", "due_cards", "failed to list due records", underlying)

	assert.Equal(t,
		"review service due_cards operation failed: failed to list due records: connection reset",
		err.Error())
	assert.ErrorIs(t, err, underlying)

	var se *ServiceError
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "due_cards", se.Operation)

	bare := &ServiceError{Service: "habit", Operation: "stats"}
	assert.Equal(t, "habit service stats operation failed", bare.Error())
}

func TestErrNotOwnedMatchesUnauthorized(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, ErrNotOwned, domain.ErrUnauthorized)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantWrapped bool
	}{
		{name: "nil", err: nil},
		{name: "invalid input passes through", err: domain.ErrEmptyUserID},
		{name: "not owned passes through", err: ErrNotOwned},
		{name: "not found passes through", err: store.ErrHabitNotFound},
		{name: "store failure is wrapped", err: &store.StoreError{Entity: "habit", Operation: "get", Err: errors.New("boom")}, wantWrapped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap("habit", "stats", "failed", tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.err)

			var se *ServiceError
			assert.Equal(t, tt.wantWrapped, errors.As(got, &se))
		})
	}
}

func TestWrapDoesNotDoubleWrap(t *testing.T) {
	t.Parallel()

	first := Wrap("habit", "record_check_in", "failed", errors.New("boom"))
	second := Wrap("habit", "record_check_in", "failed again", first)
	assert.Same(t, first, second)
}
