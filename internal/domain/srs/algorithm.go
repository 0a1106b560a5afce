package srs

import (
	"math"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
)

var defaultParams = NewDefaultParams()

// NextIntervalHours returns the number of hours until a card should be shown
// again, using the default parameters.
//
// previousHours is the interval that produced the card's current schedule;
// zero (or a negative value) means the card has never been reviewed.
//
// Algorithm behavior:
//   - First review: the base interval for the score (2, 12 or 48 hours)
//   - Later reviews: max(round(base*1.5), round(previous*1.5))
//
// A "forgot" after a long interval therefore still grows from the previous
// interval instead of resetting, e.g. NextIntervalHours(0, 72) is 108.
// Rounding is half away from zero.
func NextIntervalHours(score domain.Score, previousHours int) (int, error) {
	return nextIntervalHours(score, previousHours, defaultParams)
}

func nextIntervalHours(score domain.Score, previousHours int, params *Params) (int, error) {
	base, ok := params.BaseIntervalHours[score]
	if !ok || !score.Valid() {
		return 0, domain.ErrInvalidScore
	}

	if previousHours <= 0 {
		return base, nil
	}

	boostedBase := int(math.Round(float64(base) * params.GrowthFactor))
	boostedPrev := int(math.Round(float64(previousHours) * params.GrowthFactor))
	return max(boostedBase, boostedPrev), nil
}

// NextReviewAt returns the time a card reviewed at lastReviewed becomes due
// again after the given number of hours.
func NextReviewAt(lastReviewed time.Time, hours int) time.Time {
	return lastReviewed.Add(time.Duration(hours) * time.Hour)
}

// calculateNextRecord creates the progress record that results from a review.
// The previous record is never modified; a nil previous record is a first
// exposure.
func calculateNextRecord(
	prev *domain.ProgressRecord,
	review Review,
	now time.Time,
	params *Params,
) (*domain.ProgressRecord, error) {
	previousHours := 0
	createdAt := now
	if prev != nil {
		previousHours = prev.IntervalHours
		createdAt = prev.CreatedAt
	}

	hours, err := nextIntervalHours(review.Score, previousHours, params)
	if err != nil {
		return nil, err
	}

	topic := review.Topic
	if topic == "" && prev != nil {
		topic = prev.Topic
	}

	return &domain.ProgressRecord{
		UserID:        review.UserID,
		CardID:        review.CardID,
		Topic:         topic,
		Score:         review.Score,
		IntervalHours: hours,
		LastReviewed:  now,
		NextReview:    NextReviewAt(now, hours),
		CreatedAt:     createdAt,
		UpdatedAt:     now,
	}, nil
}
