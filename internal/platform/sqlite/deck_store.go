package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// DeckStore implements store.DeckStore on SQLite.
type DeckStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewDeckStore creates a DeckStore bound to db.
func NewDeckStore(db sqlx.ExtContext, logger *slog.Logger) *DeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckStore{db: db, logger: logger.With(slog.String("component", "deck_store"))}
}

var _ store.DeckStore = (*DeckStore)(nil)

type deckRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Topic     string    `db:"topic"`
	Cards     string    `db:"cards"`
	CreatedAt time.Time `db:"created_at"`
}

func (r deckRow) toDomain() (*domain.Deck, error) {
	deck := &domain.Deck{ID: r.ID, UserID: r.UserID, Topic: r.Topic, CreatedAt: r.CreatedAt}
	if err := json.Unmarshal([]byte(r.Cards), &deck.Cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards of deck %s: %w", r.ID, err)
	}
	return deck, nil
}

const deckSelect = `SELECT id, user_id, topic, cards, created_at FROM decks`

// Create implements store.DeckStore.Create
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}
	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decks (id, user_id, topic, cards, created_at) VALUES (?, ?, ?, ?, ?)`,
		deck.ID, deck.UserID, deck.Topic, string(cards), deck.CreatedAt.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID))
		return storeError("deck", "create", err)
	}
	return nil
}

func (s *DeckStore) getOne(ctx context.Context, op, query string, args ...any) (*domain.Deck, error) {
	var row deckRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, storeError("deck", op, err)
	}
	return row.toDomain()
}

// GetByID implements store.DeckStore.GetByID
func (s *DeckStore) GetByID(ctx context.Context, id string) (*domain.Deck, error) {
	return s.getOne(ctx, "get", deckSelect+` WHERE id = ?`, id)
}

// Latest implements store.DeckStore.Latest
func (s *DeckStore) Latest(ctx context.Context, userID string) (*domain.Deck, error) {
	return s.getOne(ctx, "latest",
		deckSelect+` WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
}

// ListByUser implements store.DeckStore.ListByUser
func (s *DeckStore) ListByUser(ctx context.Context, userID string) ([]*domain.Deck, error) {
	var rows []deckRow
	if err := sqlx.SelectContext(ctx, s.db, &rows,
		deckSelect+` WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID); err != nil {
		return nil, storeError("deck", "list", err)
	}
	decks := make([]*domain.Deck, 0, len(rows))
	for _, r := range rows {
		deck, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

// Delete implements store.DeckStore.Delete
func (s *DeckStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return storeError("deck", "delete", err)
	}
	return checkRowsAffected(result, store.ErrDeckNotFound)
}

// CountByUser implements store.DeckStore.CountByUser
func (s *DeckStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(*) FROM decks WHERE user_id = ?`, userID); err != nil {
		return 0, storeError("deck", "count", err)
	}
	return count, nil
}
