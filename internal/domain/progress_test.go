package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackScore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		feedback Feedback
		want     Score
	}{
		{FeedbackForgot, ScoreForgot},
		{FeedbackUnsure, ScoreUnsure},
		{FeedbackRemembered, ScoreRemembered},
	}
	for _, tc := range testCases {
		got, err := tc.feedback.Score()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := Feedback("maybe").Score()
	assert.ErrorIs(t, err, ErrInvalidFeedback)
	assert.True(t, IsInvalidInput(err))
}

func TestProgressRecordValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	valid := func() ProgressRecord {
		return ProgressRecord{
			UserID:        "u1",
			CardID:        "c1",
			Score:         ScoreUnsure,
			IntervalHours: 12,
			LastReviewed:  now,
			NextReview:    now.Add(12 * time.Hour),
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*ProgressRecord)
		wantErr error
	}{
		{name: "valid", mutate: func(*ProgressRecord) {}},
		{name: "empty user", mutate: func(p *ProgressRecord) { p.UserID = "" }, wantErr: ErrEmptyUserID},
		{name: "empty card", mutate: func(p *ProgressRecord) { p.CardID = "" }, wantErr: ErrEmptyCardID},
		{name: "bad score", mutate: func(p *ProgressRecord) { p.Score = 3 }, wantErr: ErrInvalidScore},
		{name: "zero interval", mutate: func(p *ProgressRecord) { p.IntervalHours = 0 }, wantErr: ErrInvalidInterval},
		{
			name:    "next before last",
			mutate:  func(p *ProgressRecord) { p.NextReview = now.Add(-time.Hour) },
			wantErr: ErrReviewOutOfOrder,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := valid()
			tc.mutate(&rec)
			err := rec.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestProgressRecordIsDue(t *testing.T) {
	t.Parallel()
	next := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := ProgressRecord{NextReview: next}

	assert.False(t, rec.IsDue(next.Add(-time.Second)))
	assert.True(t, rec.IsDue(next), "due exactly at next review")
	assert.True(t, rec.IsDue(next.Add(time.Hour)))
}

func TestScoreCounts(t *testing.T) {
	t.Parallel()
	var c ScoreCounts
	c.Add(ScoreForgot, 2)
	c.Add(ScoreRemembered, 3)
	c.Add(Score(9), 100)

	assert.Equal(t, ScoreCounts{Forgot: 2, Remembered: 3}, c)
	assert.Equal(t, 5, c.Total())
}
