package store

import (
	"context"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
)

// ProgressStore persists per-(user, card) review state.
type ProgressStore interface {
	// Get returns the record for userID and cardID.
	// Returns ErrProgressNotFound if the card has never been reviewed.
	Get(ctx context.Context, userID, cardID string) (*domain.ProgressRecord, error)

	// Upsert inserts rec or replaces the existing record for the same
	// (UserID, CardID). CreatedAt of an existing record is preserved.
	Upsert(ctx context.Context, rec *domain.ProgressRecord) error

	// ListDue returns at most limit records of userID whose NextReview is at
	// or before now, ordered by NextReview then CardID.
	ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]*domain.ProgressRecord, error)

	// CountDue returns the number of records of userID due at now.
	CountDue(ctx context.Context, userID string, now time.Time) (int, error)

	// CountByScore tallies userID's records by their latest score.
	CountByScore(ctx context.Context, userID string) (domain.ScoreCounts, error)

	// NextDue returns the record with the earliest NextReview.
	// Returns ErrProgressNotFound if the user has no records.
	NextDue(ctx context.Context, userID string) (*domain.ProgressRecord, error)

	// Lock serializes read-modify-write cycles on one (user, card) key until
	// the surrounding transaction ends. It must be called inside WithinTx.
	Lock(ctx context.Context, userID, cardID string) error
}

// DeckStore persists flashcard decks.
type DeckStore interface {
	Create(ctx context.Context, deck *domain.Deck) error
	// GetByID returns ErrDeckNotFound if no deck has the given ID.
	GetByID(ctx context.Context, id string) (*domain.Deck, error)
	// ListByUser returns the user's decks, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Deck, error)
	// Latest returns the user's most recently created deck, or ErrDeckNotFound.
	Latest(ctx context.Context, userID string) (*domain.Deck, error)
	// Delete returns ErrDeckNotFound if nothing was deleted.
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

// HabitStore persists habits and their streak state.
type HabitStore interface {
	Create(ctx context.Context, habit *domain.Habit) error
	// GetByID returns ErrHabitNotFound if no habit has the given ID.
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	// GetForUpdate is GetByID that also locks the row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Habit, error)
	// ListByUser returns the user's habits, newest first.
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error)
	// Update writes settings and streak state; returns ErrHabitNotFound if
	// the habit does not exist.
	Update(ctx context.Context, habit *domain.Habit) error
	// Delete removes the habit and its check-ins.
	Delete(ctx context.Context, id string) error
}

// CheckInStore persists the append-only check-in history.
type CheckInStore interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) error
	// ListByHabit returns check-ins with CompletedAt >= since, newest first.
	ListByHabit(ctx context.Context, habitID string, since time.Time) ([]*domain.CheckIn, error)
	Counts(ctx context.Context, habitID string) (domain.CheckInCounts, error)
}

// ReminderStore persists one reminder per user.
type ReminderStore interface {
	// Upsert creates or replaces the reminder for r.UserID.
	Upsert(ctx context.Context, r *domain.Reminder) error
	// GetByUser returns ErrReminderNotFound when the user has none.
	GetByUser(ctx context.Context, userID string) (*domain.Reminder, error)
	// ListEnabled returns up to limit enabled reminders with UserID greater
	// than afterUserID, ordered by UserID.
	ListEnabled(ctx context.Context, afterUserID string, limit int) ([]*domain.Reminder, error)
}

// StudyPlanStore persists generated study plans.
type StudyPlanStore interface {
	Create(ctx context.Context, plan *domain.StudyPlan) error
	// GetByID returns ErrStudyPlanNotFound if no plan has the given ID.
	GetByID(ctx context.Context, id string) (*domain.StudyPlan, error)
}

// Stores groups the stores that share one connection or transaction.
type Stores struct {
	Progress   ProgressStore
	Decks      DeckStore
	Habits     HabitStore
	CheckIns   CheckInStore
	Reminders  ReminderStore
	StudyPlans StudyPlanStore
}

// Transactor runs a function with stores bound to a single transaction.
type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise. Stores
	// passed to fn must not be used after fn returns.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error
}
