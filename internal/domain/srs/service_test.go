package srs

import (
	"testing"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewNow = time.Date(2024, 5, 20, 18, 45, 0, 0, time.UTC)

func newGroup(t *testing.T) *domain.ProgressGroup {
	t.Helper()
	g, err := domain.NewProgressGroup(uuid.New(), uuid.New(), reviewNow)
	require.NoError(t, err)
	return g
}

func newProgress(t *testing.T) *domain.LearningProgress {
	t.Helper()
	p, err := domain.NewLearningProgress(uuid.New(), uuid.New(), uuid.New(), reviewNow)
	require.NoError(t, err)
	return p
}

func daysBetween(from, to time.Time) int {
	return int(domain.DateOf(to).Sub(domain.DateOf(from)) / domain.Day)
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()

	_, err := NewServiceWithParams(nil)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewServiceWithParams(&Params{SuccessMultiplier: 0, MinIntervalDays: 1, FailureIntervalDays: 1})
	assert.ErrorIs(t, err, ErrInvalidParams)

	params, err := NewParams(ParamsConfig{SuccessMultiplier: 3})
	require.NoError(t, err)
	svc, err := NewServiceWithParams(params)
	require.NoError(t, err)

	res, err := svc.Schedule(Input{ReviewCount: 0, Success: true, Now: reviewNow})
	require.NoError(t, err)
	assert.Equal(t, 3, res.IntervalDays)
}

func TestScheduleIntervalProperty(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	for before := 0; before < 50; before++ {
		success, err := svc.Schedule(Input{ReviewCount: before, Success: true, Now: reviewNow})
		require.NoError(t, err)
		assert.Equal(t, max(1, (before+1)*2), daysBetween(success.LastReviewed, success.NextReview))
		assert.Equal(t, before+1, success.ReviewCount)

		failure, err := svc.Schedule(Input{ReviewCount: before, Success: false, Now: reviewNow})
		require.NoError(t, err)
		assert.Equal(t, 1, daysBetween(failure.LastReviewed, failure.NextReview))
	}
}

func TestScheduleRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	_, err := svc.Schedule(Input{ReviewCount: -1, Now: reviewNow})
	assert.ErrorIs(t, err, ErrInvalidReviewCount)

	_, err = svc.Schedule(Input{SuccessRate: 101, Now: reviewNow})
	assert.ErrorIs(t, err, ErrInvalidSuccessRate)

	_, _, err = svc.ScheduleGroup(nil, 0, true, reviewNow)
	assert.ErrorIs(t, err, ErrNilGroup)

	_, _, err = svc.ScheduleItem(nil, 0, true, reviewNow)
	assert.ErrorIs(t, err, ErrNilProgress)
}

func TestScheduleGroupThreeSuccesses(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := newGroup(t)
	original := *g

	now := reviewNow
	for i, wantInterval := range []int{2, 4, 6} {
		next, res, err := svc.ScheduleGroup(g, 0.5*float64(i), true, now)
		require.NoError(t, err)

		assert.Equal(t, i+1, next.ReviewCount)
		assert.Equal(t, wantInterval, res.IntervalDays)
		assert.Equal(t, domain.AddDays(now, wantInterval), next.NextReview)
		require.NotNil(t, next.LastReviewed)
		assert.Equal(t, now, *next.LastReviewed)
		assert.Equal(t, 0.5*float64(i), next.GroupScore)

		g = next
		now = next.NextReview.Add(10 * time.Hour)
	}

	assert.Equal(t, 0, original.ReviewCount, "input must not be mutated")
}

func TestScheduleItemSuccessFailureSuccess(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	p := newProgress(t)

	steps := []struct {
		success  bool
		score    int
		wantRate float64
		wantDays int
	}{
		{success: true, score: 5, wantRate: 100, wantDays: 2},
		{success: false, score: 1, wantRate: 50, wantDays: 1},
		{success: true, score: 4, wantRate: 66.67, wantDays: 6},
	}

	for i, step := range steps {
		next, res, err := svc.ScheduleItem(p, step.score, step.success, reviewNow)
		require.NoError(t, err)

		assert.Equal(t, i+1, next.ReviewCount)
		assert.InDelta(t, step.wantRate, next.SuccessRate, 0.01)
		assert.Equal(t, step.wantDays, res.IntervalDays)
		assert.Equal(t, step.score, next.Score)
		p = next
	}
}

func TestScheduleItemFirstReview(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	success, _, err := svc.ScheduleItem(newProgress(t), 0, true, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 100.0, success.SuccessRate)

	failure, _, err := svc.ScheduleItem(newProgress(t), 0, false, reviewNow)
	require.NoError(t, err)
	assert.Equal(t, 0.0, failure.SuccessRate)
}

func TestPostponeGroup(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	g := newGroup(t)

	_, err := svc.PostponeGroup(g, 0)
	assert.ErrorIs(t, err, ErrInvalidDays)

	next, err := svc.PostponeGroup(g, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.AddDays(reviewNow, 3), next.NextReview)
	assert.Equal(t, g.ReviewCount, next.ReviewCount)
	assert.Equal(t, domain.DateOf(reviewNow), g.NextReview)
}
