// Package streak implements the "never miss twice" habit streak rules.
//
// Apply is a pure transition function: given the current streak state of a
// habit and a check-in event it returns the next state and a classification
// of what happened. Day gaps are measured in calendar days in the habit's
// time zone, so a check-in at 23:50 followed by one at 00:10 the next local
// day counts as consecutive.
package streak

import (
	"time"
)

// State is the streak state of a single habit.
type State struct {
	CurrentStreak   int
	LongestStreak   int
	LastCompletedAt *time.Time
	MissedYesterday bool
}

// Event is a single check-in.
type Event struct {
	Completed   bool
	CompletedAt time.Time
}

// Outcome classifies a transition.
type Outcome int

// Possible outcomes
const (
	// OutcomeFirst is the first check-in ever recorded against the habit's
	// completion history.
	OutcomeFirst Outcome = iota
	// OutcomeContinued follows a completion on the previous calendar day.
	OutcomeContinued
	// OutcomeRecovered follows a single missed day.
	OutcomeRecovered
	// OutcomeReset follows a gap of two or more missed days.
	OutcomeReset
	// OutcomeSameDay is a repeat or backdated check-in; state is unchanged.
	OutcomeSameDay
)

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFirst:
		return "first"
	case OutcomeContinued:
		return "continued"
	case OutcomeRecovered:
		return "recovered"
	case OutcomeReset:
		return "reset"
	case OutcomeSameDay:
		return "same_day"
	default:
		return "unknown"
	}
}

// DaysBetween returns the number of calendar days from a to b as observed in
// loc. It is negative when b falls on an earlier local date than a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	// Rebuilding the dates at UTC midnight keeps every day exactly 24h long,
	// so DST changes in loc cannot shift the result.
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// Apply computes the state that results from event. The input state is not
// modified.
//
// Transition rules, with daysSince measured by DaysBetween:
//
//	no previous completion  current = completed ? 1 : 0         missedYesterday = false
//	daysSince == 1          current = completed ? current+1 : current, missedYesterday = false
//	daysSince == 2          current = completed ? 1 : 0         missedYesterday = true
//	daysSince  > 2          current = completed ? 1 : 0         missedYesterday = false
//	daysSince <= 0          no change
//
// LongestStreak never decreases and is always at least CurrentStreak.
// LastCompletedAt only advances on completed check-ins that change state.
func Apply(s State, e Event, loc *time.Location) (State, Outcome) {
	next := State{
		CurrentStreak:   s.CurrentStreak,
		LongestStreak:   s.LongestStreak,
		LastCompletedAt: s.LastCompletedAt,
		MissedYesterday: s.MissedYesterday,
	}

	var outcome Outcome
	if s.LastCompletedAt == nil {
		outcome = OutcomeFirst
		next.CurrentStreak = completedStreak(e.Completed)
		next.MissedYesterday = false
	} else {
		switch days := DaysBetween(*s.LastCompletedAt, e.CompletedAt, loc); {
		case days <= 0:
			return next, OutcomeSameDay
		case days == 1:
			outcome = OutcomeContinued
			if e.Completed {
				next.CurrentStreak = s.CurrentStreak + 1
			}
			next.MissedYesterday = false
		case days == 2:
			outcome = OutcomeRecovered
			next.CurrentStreak = completedStreak(e.Completed)
			next.MissedYesterday = true
		default:
			outcome = OutcomeReset
			next.CurrentStreak = completedStreak(e.Completed)
			next.MissedYesterday = false
		}
	}

	if e.Completed {
		at := e.CompletedAt
		next.LastCompletedAt = &at
	}
	next.LongestStreak = max(next.LongestStreak, next.CurrentStreak)
	return next, outcome
}

func completedStreak(completed bool) int {
	if completed {
		return 1
	}
	return 0
}
