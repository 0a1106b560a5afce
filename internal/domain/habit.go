package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // habit timezones must resolve on hosts without a zoneinfo database
	"unicode/utf8"

	"github.com/google/uuid"
)

// GoalType is the unit a habit goal is measured in.
type GoalType string

// Possible goal types
const (
	GoalCards   GoalType = "cards"
	GoalMinutes GoalType = "minutes"
)

// Frequency describes on which days a habit is expected.
type Frequency string

// Possible frequencies
const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
	FrequencyCustom   Frequency = "custom"
)

// DefaultTimezone is used for habits created without a timezone.
const DefaultTimezone = "Asia/Kolkata"

// Field limits for habits.
const (
	MaxHabitTitleLength = 100
	MaxStackCueLength   = 200
	MinGoalValue        = 1
	MaxGoalValue        = 1000
)

var (
	timeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	weekdayNames     = map[string]bool{
		"Mon": true, "Tue": true, "Wed": true, "Thu": true, "Fri": true, "Sat": true, "Sun": true,
	}
)

// Validation errors for Habit
var (
	ErrEmptyHabitID      = fmt.Errorf("%w: habit ID cannot be empty", ErrInvalidInput)
	ErrInvalidTitle      = fmt.Errorf("%w: title must be 1 to %d characters", ErrInvalidInput, MaxHabitTitleLength)
	ErrInvalidGoalType   = fmt.Errorf("%w: goal type must be cards or minutes", ErrInvalidInput)
	ErrInvalidGoalValue  = fmt.Errorf("%w: goal value must be between %d and %d", ErrInvalidInput, MinGoalValue, MaxGoalValue)
	ErrInvalidFrequency  = fmt.Errorf("%w: frequency must be daily, weekdays, weekends, or custom", ErrInvalidInput)
	ErrInvalidCustomDay  = fmt.Errorf("%w: custom days must be Mon to Sun", ErrInvalidInput)
	ErrStackCueTooLong   = fmt.Errorf("%w: stack cue cannot exceed %d characters", ErrInvalidInput, MaxStackCueLength)
	ErrInvalidTimezone   = fmt.Errorf("%w: unknown timezone", ErrInvalidInput)
	ErrInvalidStreakData = fmt.Errorf("%w: longest streak cannot be below current streak", ErrInvalidInput)
)

// ValidTimeOfDay reports whether s is a clock time in HH:MM (or H:MM) form.
func ValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// HabitSettings holds the user-editable part of a habit.
type HabitSettings struct {
	Title        string    `json:"title"`
	GoalType     GoalType  `json:"goal_type"`
	GoalValue    int       `json:"goal_value"`
	Frequency    Frequency `json:"frequency"`
	CustomDays   []string  `json:"custom_days,omitempty"`
	StackCue     string    `json:"stack_cue,omitempty"`
	ReminderTime string    `json:"reminder_time,omitempty"`
	Timezone     string    `json:"timezone"`
	Active       bool      `json:"active"`
}

// Validate checks the settings against the habit field rules.
func (s *HabitSettings) Validate() error {
	title := strings.TrimSpace(s.Title)
	if title == "" || utf8.RuneCountInString(title) > MaxHabitTitleLength {
		return ErrInvalidTitle
	}
	if s.GoalType != GoalCards && s.GoalType != GoalMinutes {
		return ErrInvalidGoalType
	}
	if s.GoalValue < MinGoalValue || s.GoalValue > MaxGoalValue {
		return ErrInvalidGoalValue
	}
	switch s.Frequency {
	case FrequencyDaily, FrequencyWeekdays, FrequencyWeekends, FrequencyCustom:
	default:
		return ErrInvalidFrequency
	}
	for _, d := range s.CustomDays {
		if !weekdayNames[d] {
			return fmt.Errorf("%w: %q", ErrInvalidCustomDay, d)
		}
	}
	if utf8.RuneCountInString(s.StackCue) > MaxStackCueLength {
		return ErrStackCueTooLong
	}
	if s.ReminderTime != "" && !ValidTimeOfDay(s.ReminderTime) {
		return ErrInvalidTimeOfDay
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, s.Timezone)
	}
	return nil
}

// Habit is a recurring study commitment with its streak state.
type Habit struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	HabitSettings

	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	MissedYesterday bool       `json:"missed_yesterday"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewHabit creates a new habit for userID with zeroed streak state.
// An empty timezone defaults to DefaultTimezone.
func NewHabit(userID string, settings HabitSettings, now time.Time) (*Habit, error) {
	settings.Title = strings.TrimSpace(settings.Title)
	if settings.Timezone == "" {
		settings.Timezone = DefaultTimezone
	}

	now = now.UTC()
	habit := &Habit{
		ID:            uuid.NewString(),
		UserID:        userID,
		HabitSettings: settings,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := habit.Validate(); err != nil {
		return nil, err
	}
	return habit, nil
}

// Validate checks if the Habit has valid data.
func (h *Habit) Validate() error {
	if h.ID == "" {
		return ErrEmptyHabitID
	}
	if h.UserID == "" {
		return ErrEmptyUserID
	}
	if h.CurrentStreak < 0 || h.LongestStreak < h.CurrentStreak {
		return ErrInvalidStreakData
	}
	return h.HabitSettings.Validate()
}

// Location returns the habit's time zone. Unknown zones fall back to UTC.
func (h *Habit) Location() *time.Location {
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HabitPatch is a partial update of HabitSettings. Nil fields are left as is.
type HabitPatch struct {
	Title        *string    `json:"title,omitempty"`
	GoalType     *GoalType  `json:"goal_type,omitempty"`
	GoalValue    *int       `json:"goal_value,omitempty"`
	Frequency    *Frequency `json:"frequency,omitempty"`
	CustomDays   *[]string  `json:"custom_days,omitempty"`
	StackCue     *string    `json:"stack_cue,omitempty"`
	ReminderTime *string    `json:"reminder_time,omitempty"`
	Timezone     *string    `json:"timezone,omitempty"`
	Active       *bool      `json:"active,omitempty"`
}

// Apply updates the habit with the non-nil patch fields and validates the
// result. The habit is left untouched when validation fails.
func (h *Habit) Apply(p HabitPatch, now time.Time) error {
	s := h.HabitSettings
	if p.Title != nil {
		s.Title = strings.TrimSpace(*p.Title)
	}
	if p.GoalType != nil {
		s.GoalType = *p.GoalType
	}
	if p.GoalValue != nil {
		s.GoalValue = *p.GoalValue
	}
	if p.Frequency != nil {
		s.Frequency = *p.Frequency
	}
	if p.CustomDays != nil {
		s.CustomDays = *p.CustomDays
	}
	if p.StackCue != nil {
		s.StackCue = *p.StackCue
	}
	if p.ReminderTime != nil {
		s.ReminderTime = *p.ReminderTime
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.Active != nil {
		s.Active = *p.Active
	}

	if err := s.Validate(); err != nil {
		return err
	}
	h.HabitSettings = s
	h.UpdatedAt = now.UTC()
	return nil
}
