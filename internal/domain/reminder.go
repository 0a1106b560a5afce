package domain

import (
	"fmt"
	"strings"
	"time"
)

// ErrEmptyPushToken is returned when a reminder has no push token.
var ErrEmptyPushToken = fmt.Errorf("%w: push token cannot be empty", ErrInvalidInput)

// Reminder holds a user's daily revision reminder settings. There is at most
// one reminder per user.
type Reminder struct {
	UserID    string    `json:"user_id"    db:"user_id"`
	PushToken string    `json:"push_token" db:"push_token"`
	TimeOfDay string    `json:"time"       db:"time_of_day"`
	Enabled   bool      `json:"enabled"    db:"enabled"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks if the Reminder has valid data.
func (r *Reminder) Validate() error {
	if r.UserID == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(r.PushToken) == "" {
		return ErrEmptyPushToken
	}
	if !ValidTimeOfDay(r.TimeOfDay) {
		return ErrInvalidTimeOfDay
	}
	return nil
}
