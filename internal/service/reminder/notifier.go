package reminder

import (
	"context"
	"fmt"
)

// Notification is a push message for one device.
type Notification struct {
	To       string
	Title    string
	Body     string
	DueCount int
}

// Notifier delivers push notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// DueMessage is the notification body for a user with due cards.
func DueMessage(due int) string {
	noun := "flashcard"
	if due > 1 {
		noun = "flashcards"
	}
	return fmt.Sprintf("You have %d %s due today. Open app to revise!", due, noun)
}
