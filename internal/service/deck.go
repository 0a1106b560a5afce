package service

import (
	"context"
	"log/slog"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// DeckService manages a user's generated flashcard decks.
type DeckService interface {
	// ListDecks returns the user's decks, newest first.
	ListDecks(ctx context.Context, userID string) ([]*domain.Deck, error)

	// DeleteDeck removes deckID after checking that userID owns it.
	// Progress records of the deck's cards are kept.
	DeleteDeck(ctx context.Context, userID, deckID string) error

	// SaveDeck stores a new deck for userID.
	SaveDeck(ctx context.Context, userID, topic string, cards []domain.Flashcard) (*domain.Deck, error)
}

type deckService struct {
	decks  store.DeckStore
	clock  Clock
	logger *slog.Logger
}

var _ DeckService = (*deckService)(nil)

// NewDeckService creates a DeckService backed by decks. A nil clock uses the
// system clock.
func NewDeckService(decks store.DeckStore, clock Clock, logger *slog.Logger) DeckService {
	if decks == nil {
		panic("decks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &deckService{
		decks:  decks,
		clock:  OrSystem(clock),
		logger: logger.With(slog.String("component", "deck_service")),
	}
}

func (s *deckService) ListDecks(ctx context.Context, userID string) ([]*domain.Deck, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	decks, err := s.decks.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, Wrap("deck", "list_decks", "failed to list decks", err)
	}
	return decks, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return domain.ErrEmptyUserID
	}
	if deckID == "" {
		return domain.ErrEmptyDeckID
	}

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return Wrap("deck", "delete_deck", "failed to load deck", err)
	}
	if deck.UserID != userID {
		log.Warn("user does not own deck",
			slog.String("user_id", userID),
			slog.String("deck_id", deckID),
			slog.String("owner_id", deck.UserID))
		return ErrNotOwned
	}

	if err := s.decks.Delete(ctx, deckID); err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID))
		return Wrap("deck", "delete_deck", "failed to delete deck", err)
	}
	return nil
}

func (s *deckService) SaveDeck(
	ctx context.Context,
	userID, topic string,
	cards []domain.Flashcard,
) (*domain.Deck, error) {
	deck, err := domain.NewDeck(userID, topic, cards, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, Wrap("deck", "save_deck", "failed to save deck", err)
	}
	return deck, nil
}
