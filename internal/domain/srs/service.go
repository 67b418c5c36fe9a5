package srs

import (
	"errors"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
)

// Common errors returned by the SRS service.
var (
	ErrNilGroup           = errors.New("progress group cannot be nil")
	ErrNilProgress        = errors.New("learning progress cannot be nil")
	ErrInvalidReviewCount = errors.New("review count cannot be negative")
	ErrInvalidSuccessRate = errors.New("success rate must be between 0 and 100")
	ErrInvalidDays        = errors.New("postpone days must be at least 1")
)

// Service schedules reviews at both granularities with one shared policy.
// Implementations never mutate their arguments; they return updated copies.
type Service interface {
	// Schedule applies the policy to a raw input.
	Schedule(in Input) (Result, error)

	// ScheduleGroup returns a copy of g advanced by one review. groupScore is
	// stored as given; it does not affect the interval.
	ScheduleGroup(g *domain.ProgressGroup, groupScore float64, success bool, now time.Time) (*domain.ProgressGroup, Result, error)

	// ScheduleItem returns a copy of p advanced by one review, including the
	// updated success rate. score is stored as given.
	ScheduleItem(p *domain.LearningProgress, score int, success bool, now time.Time) (*domain.LearningProgress, Result, error)

	// PostponeGroup returns a copy of g with NextReview moved days later.
	// Review counts are untouched.
	PostponeGroup(g *domain.ProgressGroup, days int) (*domain.ProgressGroup, error)
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a Service with NewDefaultParams.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a Service with custom parameters.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

func (s *defaultService) Schedule(in Input) (Result, error) {
	if in.ReviewCount < 0 {
		return Result{}, ErrInvalidReviewCount
	}
	if in.SuccessRate < domain.MinSuccessRate || in.SuccessRate > domain.MaxSuccessRate {
		return Result{}, ErrInvalidSuccessRate
	}
	return apply(in, s.params), nil
}

func (s *defaultService) ScheduleGroup(
	g *domain.ProgressGroup,
	groupScore float64,
	success bool,
	now time.Time,
) (*domain.ProgressGroup, Result, error) {
	if g == nil {
		return nil, Result{}, ErrNilGroup
	}

	res, err := s.Schedule(Input{ReviewCount: g.ReviewCount, Success: success, Now: now})
	if err != nil {
		return nil, Result{}, err
	}

	next := *g
	next.GroupScore = groupScore
	next.ReviewCount = res.ReviewCount
	next.LastReviewed = &res.LastReviewed
	next.NextReview = res.NextReview

	return &next, res, nil
}

func (s *defaultService) ScheduleItem(
	p *domain.LearningProgress,
	score int,
	success bool,
	now time.Time,
) (*domain.LearningProgress, Result, error) {
	if p == nil {
		return nil, Result{}, ErrNilProgress
	}

	res, err := s.Schedule(Input{
		ReviewCount: p.ReviewCount,
		SuccessRate: p.SuccessRate,
		Success:     success,
		Now:         now,
	})
	if err != nil {
		return nil, Result{}, err
	}

	next := *p
	next.Score = score
	next.ReviewCount = res.ReviewCount
	next.SuccessRate = res.SuccessRate
	next.LastReviewed = &res.LastReviewed
	next.NextReview = res.NextReview

	return &next, res, nil
}

func (s *defaultService) PostponeGroup(g *domain.ProgressGroup, days int) (*domain.ProgressGroup, error) {
	if g == nil {
		return nil, ErrNilGroup
	}
	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *g
	next.NextReview = domain.DateOf(g.NextReview).AddDate(0, 0, days)
	return &next, nil
}
