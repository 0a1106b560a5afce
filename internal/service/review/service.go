// Package review schedules flashcard reviews. It resolves which cards a user
// should study now, falling back to their newest deck when nothing is due,
// and records review feedback through the SRS calculator.
package review

import (
	"context"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
)

// Default due-set limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Config holds the due-set limits. Zero values select the defaults.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

func (c Config) withDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = MaxLimit
	}
	if c.MaxLimit < c.DefaultLimit {
		c.MaxLimit = c.DefaultLimit
	}
	return c
}

// clamp maps a requested limit onto [1, MaxLimit], using DefaultLimit for
// non-positive requests.
func (c Config) clamp(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	return min(limit, c.MaxLimit)
}

// DueItem is one card the user should review now.
//
// Items built from a deck that was never reviewed have Fallback set, a
// synthetic CardID of the form "<deckID>_<index>" and no NextReview.
type DueItem struct {
	CardID        string       `json:"card_id"`
	Topic         string       `json:"topic"`
	Question      string       `json:"question,omitempty"`
	Answer        string       `json:"answer,omitempty"`
	NextReview    *time.Time   `json:"next_review"`
	IntervalHours int          `json:"interval_hours,omitempty"`
	Score         domain.Score `json:"score"`
	DeckID        string       `json:"deck_id,omitempty"`
	Fallback      bool         `json:"fallback"`
}

// UserStats summarizes a user's review activity.
type UserStats struct {
	TotalReviewed int                `json:"total_reviewed"`
	DueNow        int                `json:"due_now"`
	Scores        domain.ScoreCounts `json:"scores"`
	DeckCount     int                `json:"deck_count"`
	NextReview    *time.Time         `json:"next_review"`
}

// Service resolves due cards and records reviews.
type Service interface {
	// DueCards returns up to limit items due for userID at the current time,
	// soonest first. When no record is due it returns the first cards of the
	// user's most recently created deck, or an empty slice when the user has
	// no decks. DueCards never writes.
	DueCards(ctx context.Context, userID string, limit int) ([]DueItem, error)

	// SubmitReview records feedback for a card and returns the saved record.
	// The read-compute-write cycle for one (user, card) pair is serialized.
	SubmitReview(ctx context.Context, userID, cardID, topic string, feedback domain.Feedback) (*domain.ProgressRecord, error)

	// Summary returns the topic and time of the user's next scheduled review.
	// Both fields are empty when the user has never reviewed a card.
	Summary(ctx context.Context, userID string) (domain.ProgressSummary, error)

	// UserStats aggregates the user's progress records and decks.
	UserStats(ctx context.Context, userID string) (*UserStats, error)
}
