// Package habit manages study habits and their "never miss twice" streaks.
//
// RecordCheckIn is the only writer of streak state. It locks the habit row,
// checks ownership, applies the pure transition from internal/domain/streak
// and appends the check-in, all in one transaction.
package habit

import (
	"context"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/domain/streak"
)

// DefaultStatsWindowDays is the look-back window of Stats.RecentCheckIns.
const DefaultStatsWindowDays = 7

// Config holds habit service settings.
type Config struct {
	StatsWindowDays int
}

// Messages returned with habit operations.
const (
	MsgHabitCreated = "Habit created successfully! Remember: tiny changes, remarkable results."
	MsgHabitsLoaded = "Habits loaded successfully"
	MsgNoHabits     = "No habits yet. Start with something tiny!"
	MsgRecovered    = "You missed yesterday, but you're here today! That's the never-miss-twice rule in action. 💪"
	MsgCompleted    = "Great work! Your consistency is building momentum. 🔥"
	MsgNotCompleted = "No worries! Life happens. Just don't miss twice in a row."
)

// CheckInMessage returns the encouragement shown after a check-in.
func CheckInMessage(completed, missedYesterday bool) string {
	switch {
	case missedYesterday:
		return MsgRecovered
	case completed:
		return MsgCompleted
	default:
		return MsgNotCompleted
	}
}

// CheckInResult is the outcome of RecordCheckIn.
type CheckInResult struct {
	CheckIn         *domain.CheckIn `json:"check_in"`
	CurrentStreak   int             `json:"current_streak"`
	LongestStreak   int             `json:"longest_streak"`
	MissedYesterday bool            `json:"missed_yesterday"`
	Outcome         streak.Outcome  `json:"-"`
	Message         string          `json:"message"`
}

// Stats aggregates a habit's streak state and check-in history.
type Stats struct {
	HabitID           string            `json:"habit_id"`
	CurrentStreak     int               `json:"current_streak"`
	LongestStreak     int               `json:"longest_streak"`
	TotalCheckIns     int               `json:"total_check_ins"`
	CompletedCheckIns int               `json:"completed_check_ins"`
	CompletionRate    int               `json:"completion_rate"`
	RecentCheckIns    []*domain.CheckIn `json:"last_7_days"`
	MissedYesterday   bool              `json:"missed_yesterday"`
}

// Service manages habits and check-ins. Every operation that names a habit
// returns service.ErrNotOwned when the habit belongs to another user.
type Service interface {
	Create(ctx context.Context, userID string, settings domain.HabitSettings) (*domain.Habit, error)
	List(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error)
	Update(ctx context.Context, userID, habitID string, patch domain.HabitPatch) (*domain.Habit, error)
	// Delete removes the habit together with its check-ins.
	Delete(ctx context.Context, userID, habitID string) error

	// RecordCheckIn applies a check-in to the habit's streak and appends it
	// to the history. A zero CompletedAt means now.
	RecordCheckIn(ctx context.Context, userID, habitID string, in domain.CheckInInput) (*CheckInResult, error)

	// Stats returns the habit's streak state, completion rate and the
	// check-ins of the configured recent window, newest first.
	Stats(ctx context.Context, userID, habitID string) (*Stats, error)
}
