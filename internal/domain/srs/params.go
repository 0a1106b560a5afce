package srs

import (
	"github.com/prepmate/prepmate-api/internal/domain"
)

// Params defines the configurable parameters of the interval calculator
type Params struct {
	// BaseIntervalHours is the interval used for a card's first review and
	// the floor for every later review with the same score.
	BaseIntervalHours map[domain.Score]int

	// GrowthFactor multiplies both the base and the previous interval.
	GrowthFactor float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	ForgotBaseHours     int
	UnsureBaseHours     int
	RememberedBaseHours int

	GrowthFactor float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		BaseIntervalHours: map[domain.Score]int{
			domain.ScoreForgot:     2,
			domain.ScoreUnsure:     12,
			domain.ScoreRemembered: 48,
		},
		GrowthFactor: 1.5,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero values keep the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.ForgotBaseHours > 0 {
		params.BaseIntervalHours[domain.ScoreForgot] = config.ForgotBaseHours
	}
	if config.UnsureBaseHours > 0 {
		params.BaseIntervalHours[domain.ScoreUnsure] = config.UnsureBaseHours
	}
	if config.RememberedBaseHours > 0 {
		params.BaseIntervalHours[domain.ScoreRemembered] = config.RememberedBaseHours
	}
	if config.GrowthFactor >= 1 {
		params.GrowthFactor = config.GrowthFactor
	}

	return params
}
