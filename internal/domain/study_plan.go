package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Difficulty used for plan items when none is given.
const DefaultDifficulty = "medium"

// Validation errors for StudyPlan
var (
	ErrNoWeakTopics          = fmt.Errorf("%w: at least one topic is required", ErrInvalidInput)
	ErrInvalidAvailableHours = fmt.Errorf("%w: available hours must be positive", ErrInvalidInput)
)

// PlanItem is one block of a study plan.
type PlanItem struct {
	Topic      string `json:"topic"`
	Duration   int    `json:"duration"` // minutes
	Difficulty string `json:"difficulty"`
}

// StudyPlan is a generated schedule for a user's weak topics.
type StudyPlan struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	WeakTopics     []string   `json:"weak_topics"`
	AvailableHours float64    `json:"available_hours"`
	Items          []PlanItem `json:"items"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewStudyPlan creates a plan with a fresh ID.
func NewStudyPlan(userID string, topics []string, hours float64, items []PlanItem, now time.Time) (*StudyPlan, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if len(topics) == 0 {
		return nil, ErrNoWeakTopics
	}
	if hours <= 0 {
		return nil, ErrInvalidAvailableHours
	}
	return &StudyPlan{
		ID:             uuid.NewString(),
		UserID:         userID,
		WeakTopics:     topics,
		AvailableHours: hours,
		Items:          items,
		CreatedAt:      now.UTC(),
	}, nil
}

// EvenPlan splits the available time equally across topics at the default
// difficulty.
func EvenPlan(topics []string, hours float64) []PlanItem {
	if len(topics) == 0 {
		return nil
	}
	minutes := int(hours*60) / len(topics)
	items := make([]PlanItem, 0, len(topics))
	for _, t := range topics {
		items = append(items, PlanItem{Topic: t, Duration: minutes, Difficulty: DefaultDifficulty})
	}
	return items
}
