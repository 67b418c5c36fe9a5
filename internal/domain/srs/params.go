package srs

import "errors"

// ErrInvalidParams is returned by NewParams when a value would break the
// scheduling invariants (intervals must be at least one day).
var ErrInvalidParams = errors.New("invalid scheduling parameters")

// Params holds the tunable constants of the scheduling policy.
//
// The policy is deliberately minimal: every successful review widens the
// interval linearly with the review count, and any failure resets it.
type Params struct {
	// SuccessMultiplier scales the new review count into the interval after a
	// successful review.
	SuccessMultiplier int

	// MinIntervalDays is the floor applied to the interval after a success.
	MinIntervalDays int

	// FailureIntervalDays is the interval after a failed review.
	FailureIntervalDays int
}

// ParamsConfig is the externally configurable subset of Params. Zero values
// keep the defaults.
type ParamsConfig struct {
	SuccessMultiplier   int
	MinIntervalDays     int
	FailureIntervalDays int
}

// NewDefaultParams returns the standard policy: interval = max(1, count*2)
// on success and 1 day on failure.
func NewDefaultParams() *Params {
	return &Params{
		SuccessMultiplier:   2,
		MinIntervalDays:     1,
		FailureIntervalDays: 1,
	}
}

// NewParams overlays config onto the defaults and validates the result.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.SuccessMultiplier != 0 {
		params.SuccessMultiplier = config.SuccessMultiplier
	}
	if config.MinIntervalDays != 0 {
		params.MinIntervalDays = config.MinIntervalDays
	}
	if config.FailureIntervalDays != 0 {
		params.FailureIntervalDays = config.FailureIntervalDays
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks that every interval is at least one day.
func (p *Params) Validate() error {
	if p.SuccessMultiplier < 1 || p.MinIntervalDays < 1 || p.FailureIntervalDays < 1 {
		return ErrInvalidParams
	}
	return nil
}
