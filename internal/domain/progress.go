package domain

import (
	"fmt"
	"time"
)

// Score is the user's recall feedback for a single card review.
type Score int

// Possible score values
const (
	ScoreForgot     Score = 0
	ScoreUnsure     Score = 1
	ScoreRemembered Score = 2
)

// Valid reports whether the score is one of the known values.
func (s Score) Valid() bool {
	return s >= ScoreForgot && s <= ScoreRemembered
}

// Feedback is the textual form of a Score as submitted by clients.
type Feedback string

// Possible feedback values
const (
	FeedbackForgot     Feedback = "forgot"
	FeedbackUnsure     Feedback = "unsure"
	FeedbackRemembered Feedback = "remembered"
)

var feedbackScores = map[Feedback]Score{
	FeedbackForgot:     ScoreForgot,
	FeedbackUnsure:     ScoreUnsure,
	FeedbackRemembered: ScoreRemembered,
}

// Score maps feedback to its numeric score.
func (f Feedback) Score() (Score, error) {
	score, ok := feedbackScores[f]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFeedback, string(f))
	}
	return score, nil
}

// Validation errors for ProgressRecord
var (
	ErrEmptyCardID      = fmt.Errorf("%w: card ID cannot be empty", ErrInvalidInput)
	ErrInvalidScore     = fmt.Errorf("%w: score must be 0, 1, or 2", ErrInvalidInput)
	ErrInvalidFeedback  = fmt.Errorf("%w: feedback must be one of: forgot, unsure, remembered", ErrInvalidInput)
	ErrInvalidInterval  = fmt.Errorf("%w: interval hours must be positive", ErrInvalidInput)
	ErrReviewOutOfOrder = fmt.Errorf("%w: next review cannot precede last review", ErrInvalidInput)
)

// ProgressRecord is a user's review state for one card. There is at most one
// record per (UserID, CardID).
type ProgressRecord struct {
	UserID        string    `json:"user_id"        db:"user_id"`
	CardID        string    `json:"card_id"        db:"card_id"`
	Topic         string    `json:"topic"          db:"topic"`
	Score         Score     `json:"score"          db:"score"`
	IntervalHours int       `json:"interval_hours" db:"interval_hours"` // interval that produced NextReview
	LastReviewed  time.Time `json:"last_reviewed"  db:"last_reviewed"`
	NextReview    time.Time `json:"next_review"    db:"next_review"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"     db:"updated_at"`
}

// Validate checks if the ProgressRecord has valid data.
func (p *ProgressRecord) Validate() error {
	if p.UserID == "" {
		return ErrEmptyUserID
	}
	if p.CardID == "" {
		return ErrEmptyCardID
	}
	if !p.Score.Valid() {
		return ErrInvalidScore
	}
	if p.IntervalHours <= 0 {
		return ErrInvalidInterval
	}
	if p.NextReview.Before(p.LastReviewed) {
		return ErrReviewOutOfOrder
	}
	return nil
}

// IsDue reports whether the card should be reviewed at now.
func (p *ProgressRecord) IsDue(now time.Time) bool {
	return !now.Before(p.NextReview)
}

// ProgressSummary is a compact view of what a user should review next.
type ProgressSummary struct {
	Topic      string     `json:"topic,omitempty"`
	NextReview *time.Time `json:"next_review"`
}

// ScoreCounts tallies a user's progress records by their latest score.
type ScoreCounts struct {
	Forgot     int `json:"forgot"`
	Unsure     int `json:"unsure"`
	Remembered int `json:"remembered"`
}

// Total returns the number of records counted.
func (c ScoreCounts) Total() int {
	return c.Forgot + c.Unsure + c.Remembered
}

// Add increments the counter for score by n. Unknown scores are ignored.
func (c *ScoreCounts) Add(score Score, n int) {
	switch score {
	case ScoreForgot:
		c.Forgot += n
	case ScoreUnsure:
		c.Unsure += n
	case ScoreRemembered:
		c.Remembered += n
	}
}
