package api

import (
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
)

// UpdateProgressRequest is the body of POST /progress/update-progress.
type UpdateProgressRequest struct {
	UserID   string `json:"user_id"  validate:"required"`
	CardID   string `json:"card_id"  validate:"required"`
	Topic    string `json:"topic"    validate:"required"`
	Feedback string `json:"feedback" validate:"required,oneof=forgot unsure remembered"`
}

// ProgressResponse reports the schedule produced by a review.
type ProgressResponse struct {
	CardID        string    `json:"card_id"`
	Score         int       `json:"score"`
	IntervalHours int       `json:"interval_hours"`
	NextReview    time.Time `json:"next_review"`
}

// CreateHabitRequest is the body of POST /habits.
type CreateHabitRequest struct {
	UserID       string   `json:"user_id"       validate:"required"`
	Title        string   `json:"title"         validate:"required,max=100"`
	GoalType     string   `json:"goal_type"     validate:"required,oneof=cards minutes"`
	GoalValue    int      `json:"goal_value"    validate:"required,gte=1,lte=1000"`
	Frequency    string   `json:"frequency"     validate:"required,oneof=daily weekdays weekends custom"`
	CustomDays   []string `json:"custom_days"   validate:"omitempty,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	StackCue     string   `json:"stack_cue"     validate:"max=200"`
	ReminderTime string   `json:"reminder_time"`
	Timezone     string   `json:"timezone"      validate:"omitempty,timezone"`
	// Active defaults to true.
	Active *bool `json:"active"`
}

func (req CreateHabitRequest) settings() domain.HabitSettings {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return domain.HabitSettings{
		Title:        req.Title,
		GoalType:     domain.GoalType(req.GoalType),
		GoalValue:    req.GoalValue,
		Frequency:    domain.Frequency(req.Frequency),
		CustomDays:   req.CustomDays,
		StackCue:     req.StackCue,
		ReminderTime: req.ReminderTime,
		Timezone:     req.Timezone,
		Active:       active,
	}
}

// UpdateHabitRequest is the body of PATCH /habits/{habitId}. Only the
// fields present are changed; the domain validates the merged result.
type UpdateHabitRequest struct {
	UserID string `json:"user_id" validate:"required"`
	domain.HabitPatch
}

// HabitResponse wraps a single habit with a motivational message.
type HabitResponse struct {
	Habit   *domain.Habit `json:"habit"`
	Message string        `json:"message,omitempty"`
}

// HabitListResponse is the body of GET /habits/{userId}.
type HabitListResponse struct {
	Habits  []*domain.Habit `json:"habits"`
	Message string          `json:"message"`
}

// CheckInRequest is the body of POST /habits/check-in.
type CheckInRequest struct {
	UserID      string     `json:"user_id"      validate:"required"`
	HabitID     string     `json:"habit_id"     validate:"required"`
	Completed   *bool      `json:"completed"    validate:"required"`
	Mood        string     `json:"mood"         validate:"omitempty,oneof=great good okay struggling"`
	TimeSpent   *int       `json:"time_spent"   validate:"omitempty,gte=0,lte=1440"`
	DailyWin    string     `json:"daily_win"    validate:"max=500"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (req CheckInRequest) input() domain.CheckInInput {
	in := domain.CheckInInput{
		Completed: *req.Completed,
		Mood:      domain.Mood(req.Mood),
		TimeSpent: req.TimeSpent,
		DailyWin:  req.DailyWin,
	}
	if req.CompletedAt != nil {
		in.CompletedAt = *req.CompletedAt
	}
	return in
}

// SetReminderRequest is the body of POST /reminders/set.
type SetReminderRequest struct {
	UserID    string `json:"user_id"    validate:"required"`
	PushToken string `json:"push_token" validate:"required"`
	TimeOfDay string `json:"time"       validate:"required"`
	// Enabled defaults to true.
	Enabled *bool `json:"enabled"`
}

// SolveDoubtRequest is the body of POST /ai/solve-doubt. One of the two
// fields is required.
type SolveDoubtRequest struct {
	QuestionText string `json:"question_text"`
	ImageURL     string `json:"image_url" validate:"omitempty,http_url"`
}

// GeneratePlanRequest is the body of POST /ai/generate-plan.
type GeneratePlanRequest struct {
	UserID         string   `json:"user_id"         validate:"required"`
	WeakTopics     []string `json:"weak_topics"     validate:"required,min=1"`
	AvailableHours float64  `json:"available_hours" validate:"required,gt=0"`
}

// GenerateFlashcardsRequest is the body of POST /ai/generate-flashcards.
// Cards are saved as a deck when UserID is set.
type GenerateFlashcardsRequest struct {
	Topic  string `json:"topic"   validate:"required"`
	UserID string `json:"user_id"`
}

// ExtractTextRequest is the body of POST /ocr/extract-text.
type ExtractTextRequest struct {
	ImageURL string `json:"image_url" validate:"required,http_url"`
}

// ExtractTextResponse carries the text read from an image.
type ExtractTextResponse struct {
	Text string `json:"text"`
}
