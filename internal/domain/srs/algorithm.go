package srs

import (
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
)

// Input is the scheduling-relevant state of a record before a review.
type Input struct {
	// ReviewCount is the number of reviews recorded so far.
	ReviewCount int

	// SuccessRate is the running success percentage. Group-level callers
	// leave it at zero and ignore the rate in the result.
	SuccessRate float64

	// Success is the review outcome.
	Success bool

	// Now is the review instant.
	Now time.Time
}

// Result is the state of a record after a review.
type Result struct {
	ReviewCount  int
	SuccessRate  float64
	IntervalDays int
	LastReviewed time.Time
	NextReview   time.Time
}

// apply computes the next state for in. It is a pure function: the same
// input always produces the same result.
//
// The interval depends only on the new review count, so on a run of successes
// intervals grow linearly (2, 4, 6, ... days with default params) rather than
// compounding. A failure resets the interval regardless of history.
func apply(in Input, params *Params) Result {
	count := in.ReviewCount + 1
	interval := calculateInterval(count, in.Success, params)

	return Result{
		ReviewCount:  count,
		SuccessRate:  calculateSuccessRate(in.SuccessRate, in.ReviewCount, in.Success),
		IntervalDays: interval,
		LastReviewed: in.Now.UTC(),
		NextReview:   domain.AddDays(in.Now, interval),
	}
}

// calculateInterval returns the number of days until the next review.
func calculateInterval(reviewCountAfter int, success bool, params *Params) int {
	if !success {
		return params.FailureIntervalDays
	}
	return max(params.MinIntervalDays, reviewCountAfter*params.SuccessMultiplier)
}

// calculateSuccessRate folds one outcome into the running mean. The prior
// rate is weighted by the pre-increment count, so on a first review the prior
// value has no influence and the result is exactly 0 or 100.
func calculateSuccessRate(rateBefore float64, countBefore int, success bool) float64 {
	outcome := domain.MinSuccessRate
	if success {
		outcome = domain.MaxSuccessRate
	}

	rate := (rateBefore*float64(countBefore) + outcome) / float64(countBefore+1)

	// Guard against float drift at the bounds.
	if rate < domain.MinSuccessRate {
		return domain.MinSuccessRate
	}
	if rate > domain.MaxSuccessRate {
		return domain.MaxSuccessRate
	}
	return rate
}
