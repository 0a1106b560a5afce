package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for Deck
var (
	ErrEmptyTopic    = fmt.Errorf("%w: topic cannot be empty", ErrInvalidInput)
	ErrEmptyDeck     = fmt.Errorf("%w: deck must contain at least one card", ErrInvalidInput)
	ErrEmptyQuestion = fmt.Errorf("%w: flashcard question cannot be empty", ErrInvalidInput)
	ErrEmptyDeckID   = fmt.Errorf("%w: deck ID cannot be empty", ErrInvalidInput)
)

// Flashcard is a single question/answer pair inside a deck.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Deck is an ordered set of flashcards generated for a topic.
type Deck struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Topic     string      `json:"topic"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewDeck creates a new deck for userID with a fresh ID.
func NewDeck(userID, topic string, cards []Flashcard, now time.Time) (*Deck, error) {
	deck := &Deck{
		ID:        uuid.NewString(),
		UserID:    userID,
		Topic:     strings.TrimSpace(topic),
		Cards:     cards,
		CreatedAt: now.UTC(),
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == "" {
		return ErrEmptyDeckID
	}
	if d.UserID == "" {
		return ErrEmptyUserID
	}
	if d.Topic == "" {
		return ErrEmptyTopic
	}
	if len(d.Cards) == 0 {
		return ErrEmptyDeck
	}
	for _, c := range d.Cards {
		if strings.TrimSpace(c.Question) == "" {
			return ErrEmptyQuestion
		}
	}
	return nil
}

// FallbackCardID builds the card ID used for the index-th card of a deck that
// has not been reviewed yet.
func FallbackCardID(deckID string, index int) string {
	return fmt.Sprintf("%s_%d", deckID, index)
}
