package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/prepmate/prepmate-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckService(t *testing.T) {
	ctx := context.Background()
	stores, _ := testutils.NewSQLiteStores(t)
	clock := testutils.NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := service.NewDeckService(stores.Decks, clock, logger.DiscardLogger())

	cards := []domain.Flashcard{
		{Question: "What is inertia?", Answer: "Resistance to change in motion"},
		{Question: "Unit of force?", Answer: "Newton"},
	}

	t.Run("save and list newest first", func(t *testing.T) {
		first, err := svc.SaveDeck(ctx, "user-1", "Laws of Motion", cards)
		require.NoError(t, err)
		clock.Advance(time.Minute)
		second, err := svc.SaveDeck(ctx, "user-1", "Thermodynamics", cards[:1])
		require.NoError(t, err)

		decks, err := svc.ListDecks(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, decks, 2)
		assert.Equal(t, second.ID, decks[0].ID)
		assert.Equal(t, first.ID, decks[1].ID)
		assert.Equal(t, cards, decks[1].Cards)
	})

	t.Run("save rejects empty deck", func(t *testing.T) {
		_, err := svc.SaveDeck(ctx, "user-1", "Optics", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyDeck)
	})

	t.Run("delete requires ownership", func(t *testing.T) {
		deck, err := svc.SaveDeck(ctx, "user-2", "Organic Chemistry", cards)
		require.NoError(t, err)

		err = svc.DeleteDeck(ctx, "user-1", deck.ID)
		assert.ErrorIs(t, err, service.ErrNotOwned)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		require.NoError(t, svc.DeleteDeck(ctx, "user-2", deck.ID))
		_, err = stores.Decks.GetByID(ctx, deck.ID)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})

	t.Run("delete unknown deck", func(t *testing.T) {
		err := svc.DeleteDeck(ctx, "user-1", "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("empty identifiers", func(t *testing.T) {
		_, err := svc.ListDecks(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.ErrorIs(t, svc.DeleteDeck(ctx, "user-1", ""), domain.ErrInvalidInput)
	})
}
