package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewKind tells which granularity a review log entry belongs to.
type ReviewKind string

const (
	ReviewKindGroup ReviewKind = "group"
	ReviewKindItem  ReviewKind = "item"
)

// ReviewLogEntry records one applied review. Entries are append-only.
type ReviewLogEntry struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	GroupID       uuid.UUID  `json:"group_id"`
	TranslationID *uuid.UUID `json:"translation_id,omitempty"`
	Kind          ReviewKind `json:"kind"`
	Success       bool       `json:"success"`
	Score         float64    `json:"score"`
	ReviewCount   int        `json:"review_count"`
	IntervalDays  int        `json:"interval_days"`
	ReviewedAt    time.Time  `json:"reviewed_at"`
	NextReview    time.Time  `json:"next_review"`
}

// NewGroupReviewLog builds the log entry for an applied group review.
func NewGroupReviewLog(g *ProgressGroup, success bool, intervalDays int) *ReviewLogEntry {
	return &ReviewLogEntry{
		ID:           uuid.New(),
		UserID:       g.UserID,
		GroupID:      g.ID,
		Kind:         ReviewKindGroup,
		Success:      success,
		Score:        g.GroupScore,
		ReviewCount:  g.ReviewCount,
		IntervalDays: intervalDays,
		ReviewedAt:   derefTime(g.LastReviewed),
		NextReview:   g.NextReview,
	}
}

// NewItemReviewLog builds the log entry for an applied item review.
func NewItemReviewLog(p *LearningProgress, success bool, intervalDays int) *ReviewLogEntry {
	translationID := p.TranslationID
	return &ReviewLogEntry{
		ID:            uuid.New(),
		UserID:        p.UserID,
		GroupID:       p.GroupID,
		TranslationID: &translationID,
		Kind:          ReviewKindItem,
		Success:       success,
		Score:         float64(p.Score),
		ReviewCount:   p.ReviewCount,
		IntervalDays:  intervalDays,
		ReviewedAt:    derefTime(p.LastReviewed),
		NextReview:    p.NextReview,
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
