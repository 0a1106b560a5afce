package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface.
// Cards are stored as a JSONB array.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

const deckColumns = `id, user_id, topic, cards, created_at`

func scanDeck(row interface{ Scan(...any) error }) (*domain.Deck, error) {
	var deck domain.Deck
	var cards []byte
	if err := row.Scan(&deck.ID, &deck.UserID, &deck.Topic, &cards, &deck.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cards, &deck.Cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards of deck %s: %w", deck.ID, err)
	}
	return &deck, nil
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID))
		return err
	}

	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decks (`+deckColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		deck.ID, deck.UserID, deck.Topic, string(cards), deck.CreatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID),
			slog.String("user_id", deck.UserID))
		return storeError("deck", "create", err)
	}

	log.Info("deck created successfully",
		slog.String("deck_id", deck.ID),
		slog.String("user_id", deck.UserID),
		slog.Int("cards", len(deck.Cards)))
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id string) (*domain.Deck, error) {
	deck, err := scanDeck(s.db.QueryRowContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id))
		return nil, storeError("deck", "get", err)
	}
	return deck, nil
}

// ListByUser implements store.DeckStore.ListByUser
func (s *PostgresDeckStore) ListByUser(ctx context.Context, userID string) ([]*domain.Deck, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, storeError("deck", "list", err)
	}
	defer func() { _ = rows.Close() }()

	decks := []*domain.Deck{}
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, storeError("deck", "list", err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("deck", "list", err)
	}
	return decks, nil
}

// Latest implements store.DeckStore.Latest
func (s *PostgresDeckStore) Latest(ctx context.Context, userID string) (*domain.Deck, error) {
	deck, err := scanDeck(s.db.QueryRowContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get latest deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, storeError("deck", "latest", err)
	}
	return deck, nil
}

// Delete implements store.DeckStore.Delete
func (s *PostgresDeckStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id))
		return storeError("deck", "delete", err)
	}
	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	log.Info("deck deleted successfully", slog.String("deck_id", id))
	return nil
}

// CountByUser implements store.DeckStore.CountByUser
func (s *PostgresDeckStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decks WHERE user_id = $1`, userID,
	).Scan(&count); err != nil {
		return 0, storeError("deck", "count", err)
	}
	return count, nil
}
