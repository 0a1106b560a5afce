package srs

import (
	"errors"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
)

// ErrRecordMismatch is returned when the previous record belongs to another
// user or card than the review.
var ErrRecordMismatch = errors.New("previous progress record does not match review")

// Review identifies a single review submission.
type Review struct {
	UserID string
	CardID string
	Topic  string
	Score  domain.Score
}

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the record that replaces prev after the
	// review happening at now. prev is nil for a card's first review.
	CalculateNextReview(
		prev *domain.ProgressRecord,
		review Review,
		now time.Time,
	) (*domain.ProgressRecord, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface
func (s *defaultService) CalculateNextReview(
	prev *domain.ProgressRecord,
	review Review,
	now time.Time,
) (*domain.ProgressRecord, error) {
	if review.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}
	if review.CardID == "" {
		return nil, domain.ErrEmptyCardID
	}
	if !review.Score.Valid() {
		return nil, domain.ErrInvalidScore
	}
	if prev != nil && (prev.UserID != review.UserID || prev.CardID != review.CardID) {
		return nil, ErrRecordMismatch
	}

	return calculateNextRecord(prev, review, now.UTC(), s.params)
}
