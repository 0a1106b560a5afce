package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Mood is the optional self-reported mood attached to a check-in.
type Mood string

// Possible moods
const (
	MoodGreat      Mood = "great"
	MoodGood       Mood = "good"
	MoodOkay       Mood = "okay"
	MoodStruggling Mood = "struggling"
)

// Field limits for check-ins.
const (
	MaxTimeSpentMinutes = 1440
	MaxDailyWinLength   = 500

	// MaxCheckInClockSkew is how far past the server clock a client-supplied
	// completion time may be.
	MaxCheckInClockSkew = 5 * time.Minute
)

// Validation errors for CheckIn
var (
	ErrInvalidMood      = fmt.Errorf("%w: mood must be great, good, okay, or struggling", ErrInvalidInput)
	ErrInvalidTimeSpent = fmt.Errorf("%w: time spent must be between 0 and %d minutes", ErrInvalidInput, MaxTimeSpentMinutes)
	ErrDailyWinTooLong  = fmt.Errorf("%w: daily win cannot exceed %d characters", ErrInvalidInput, MaxDailyWinLength)
	ErrMissingTimestamp = fmt.Errorf("%w: completion time is required", ErrInvalidInput)
	ErrFutureCheckIn    = fmt.Errorf("%w: completion time cannot be in the future", ErrInvalidInput)
)

// CheckIn is one append-only entry in a habit's history.
type CheckIn struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	UserID      string    `json:"user_id"`
	Completed   bool      `json:"completed"`
	Mood        Mood      `json:"mood,omitempty"`
	TimeSpent   *int      `json:"time_spent,omitempty"`
	DailyWin    string    `json:"daily_win,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckInInput carries the caller-supplied part of a check-in.
type CheckInInput struct {
	Completed   bool
	Mood        Mood
	TimeSpent   *int
	DailyWin    string
	CompletedAt time.Time
}

// NewCheckIn creates a validated check-in for the given habit. Completion
// times more than MaxCheckInClockSkew past now are rejected.
func NewCheckIn(habitID, userID string, in CheckInInput, now time.Time) (*CheckIn, error) {
	c := &CheckIn{
		ID:          uuid.NewString(),
		HabitID:     habitID,
		UserID:      userID,
		Completed:   in.Completed,
		Mood:        in.Mood,
		TimeSpent:   in.TimeSpent,
		DailyWin:    in.DailyWin,
		CompletedAt: in.CompletedAt.UTC(),
		CreatedAt:   now.UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.CompletedAt.After(now.Add(MaxCheckInClockSkew)) {
		return nil, ErrFutureCheckIn
	}
	return c, nil
}

// Validate checks if the CheckIn has valid data.
func (c *CheckIn) Validate() error {
	if c.HabitID == "" {
		return ErrEmptyHabitID
	}
	if c.UserID == "" {
		return ErrEmptyUserID
	}
	switch c.Mood {
	case "", MoodGreat, MoodGood, MoodOkay, MoodStruggling:
	default:
		return ErrInvalidMood
	}
	if c.TimeSpent != nil && (*c.TimeSpent < 0 || *c.TimeSpent > MaxTimeSpentMinutes) {
		return ErrInvalidTimeSpent
	}
	if utf8.RuneCountInString(c.DailyWin) > MaxDailyWinLength {
		return ErrDailyWinTooLong
	}
	if c.CompletedAt.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}

// CheckInCounts is the number of check-ins recorded for a habit.
type CheckInCounts struct {
	Total     int
	Completed int
}

// CompletionRate returns the completed percentage rounded to the nearest
// integer, or 0 when there are no check-ins.
func (c CheckInCounts) CompletionRate() int {
	if c.Total <= 0 {
		return 0
	}
	return (200*c.Completed + c.Total) / (2 * c.Total)
}
