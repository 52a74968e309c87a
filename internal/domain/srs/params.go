package srs

import (
	"errors"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/domain"
)

// ErrInvalidParams is returned when a Params value cannot drive the scheduler.
var ErrInvalidParams = errors.New("invalid scheduler parameters")

// Params defines all configurable parameters for the scheduling algorithm
type Params struct {
	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Ease adjustments per outcome
	SuccessEaseBonus   float64
	FailureEasePenalty float64

	// Fixed intervals, in days, for the first two successful reviews
	FirstInterval  int
	SecondInterval int

	// How soon a failed card becomes due again
	RelearnDelay time.Duration
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero fields keep their defaults.
type ParamsConfig struct {
	MinEaseFactor      float64
	MaxEaseFactor      float64
	SuccessEaseBonus   float64
	FailureEasePenalty float64
	FirstInterval      int
	SecondInterval     int
	RelearnDelay       time.Duration
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:      domain.MinEaseFactor,
		MaxEaseFactor:      domain.MaxEaseFactor,
		SuccessEaseBonus:   0.1,
		FailureEasePenalty: 0.2,
		FirstInterval:      1,
		SecondInterval:     6,
		RelearnDelay:       time.Minute,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.SuccessEaseBonus > 0 {
		params.SuccessEaseBonus = config.SuccessEaseBonus
	}
	if config.FailureEasePenalty > 0 {
		params.FailureEasePenalty = config.FailureEasePenalty
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.RelearnDelay > 0 {
		params.RelearnDelay = config.RelearnDelay
	}

	return params
}

// Validate checks that the parameters are internally consistent.
func (p *Params) Validate() error {
	if p.MinEaseFactor <= 0 || p.MaxEaseFactor < p.MinEaseFactor {
		return ErrInvalidParams
	}
	if p.FirstInterval < 1 || p.SecondInterval < p.FirstInterval {
		return ErrInvalidParams
	}
	if p.RelearnDelay <= 0 {
		return ErrInvalidParams
	}
	return nil
}
