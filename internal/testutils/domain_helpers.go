package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/stretchr/testify/require"
)

// Clock is a settable time source for services under test.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock stopped at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.now }

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) { c.now = t }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// HabitOption customizes a habit built by CreateHabit.
type HabitOption func(*domain.HabitSettings)

// WithTimezone sets the habit's IANA time zone.
func WithTimezone(tz string) HabitOption {
	return func(s *domain.HabitSettings) { s.Timezone = tz }
}

// WithTitle sets the habit title.
func WithTitle(title string) HabitOption {
	return func(s *domain.HabitSettings) { s.Title = title }
}

// Inactive marks the habit as paused.
func Inactive() HabitOption {
	return func(s *domain.HabitSettings) { s.Active = false }
}

// DefaultHabitSettings returns valid settings for a daily card-review habit.
func DefaultHabitSettings() domain.HabitSettings {
	return domain.HabitSettings{
		Title:     "Review flashcards",
		GoalType:  domain.GoalCards,
		GoalValue: 10,
		Frequency: domain.FrequencyDaily,
		Timezone:  "UTC",
		Active:    true,
	}
}

// CreateHabit builds a valid habit for userID without persisting it.
func CreateHabit(t *testing.T, userID string, now time.Time, opts ...HabitOption) *domain.Habit {
	t.Helper()
	settings := DefaultHabitSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	h, err := domain.NewHabit(userID, settings, now)
	require.NoError(t, err, "failed to build habit")
	return h
}

// MustInsertHabit persists a habit built by CreateHabit.
func MustInsertHabit(ctx context.Context, t *testing.T, habits store.HabitStore, userID string, now time.Time, opts ...HabitOption) *domain.Habit {
	t.Helper()
	h := CreateHabit(t, userID, now, opts...)
	require.NoError(t, habits.Create(ctx, h), "failed to insert habit")
	return h
}

// CreateDeck builds a deck with n numbered cards.
func CreateDeck(t *testing.T, userID, topic string, n int, now time.Time) *domain.Deck {
	t.Helper()
	cards := make([]domain.Flashcard, n)
	for i := range cards {
		cards[i] = domain.Flashcard{
			Question: fmt.Sprintf("%s question %d", topic, i+1),
			Answer:   fmt.Sprintf("%s answer %d", topic, i+1),
		}
	}
	deck, err := domain.NewDeck(userID, topic, cards, now)
	require.NoError(t, err, "failed to build deck")
	return deck
}

// MustInsertDeck persists a deck built by CreateDeck.
func MustInsertDeck(ctx context.Context, t *testing.T, decks store.DeckStore, userID, topic string, n int, now time.Time) *domain.Deck {
	t.Helper()
	deck := CreateDeck(t, userID, topic, n, now)
	require.NoError(t, decks.Create(ctx, deck), "failed to insert deck")
	return deck
}

// MustInsertProgress persists a progress record due at next.
func MustInsertProgress(
	ctx context.Context,
	t *testing.T,
	progress store.ProgressStore,
	userID, cardID string,
	score domain.Score,
	intervalHours int,
	next time.Time,
) *domain.ProgressRecord {
	t.Helper()
	last := next.Add(-time.Duration(intervalHours) * time.Hour)
	rec := &domain.ProgressRecord{
		UserID:        userID,
		CardID:        cardID,
		Topic:         "topic",
		Score:         score,
		IntervalHours: intervalHours,
		LastReviewed:  last.UTC(),
		NextReview:    next.UTC(),
		CreatedAt:     last.UTC(),
		UpdatedAt:     last.UTC(),
	}
	require.NoError(t, progress.Upsert(ctx, rec), "failed to insert progress")
	return rec
}
