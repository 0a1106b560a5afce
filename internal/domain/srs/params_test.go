package srs

import (
	"testing"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.Equal(t, 2, params.BaseIntervalHours[domain.ScoreForgot])
	assert.Equal(t, 12, params.BaseIntervalHours[domain.ScoreUnsure])
	assert.Equal(t, 48, params.BaseIntervalHours[domain.ScoreRemembered])
	assert.InDelta(t, 1.5, params.GrowthFactor, 1e-9)
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	t.Run("zero config keeps defaults", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, NewDefaultParams(), NewParams(ParamsConfig{}))
	})

	t.Run("overrides are applied", func(t *testing.T) {
		t.Parallel()
		params := NewParams(ParamsConfig{
			ForgotBaseHours:     1,
			UnsureBaseHours:     6,
			RememberedBaseHours: 24,
			GrowthFactor:        2,
		})
		assert.Equal(t, 1, params.BaseIntervalHours[domain.ScoreForgot])
		assert.Equal(t, 6, params.BaseIntervalHours[domain.ScoreUnsure])
		assert.Equal(t, 24, params.BaseIntervalHours[domain.ScoreRemembered])
		assert.InDelta(t, 2.0, params.GrowthFactor, 1e-9)
	})

	t.Run("shrinking growth factor is ignored", func(t *testing.T) {
		t.Parallel()
		params := NewParams(ParamsConfig{GrowthFactor: 0.5})
		assert.InDelta(t, 1.5, params.GrowthFactor, 1e-9)
	})
}
