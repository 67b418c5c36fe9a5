package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MinSuccessRate and MaxSuccessRate bound LearningProgress.SuccessRate.
	MinSuccessRate = 0.0
	MaxSuccessRate = 100.0
)

// LearningProgress is the scheduling state of one translation for one user.
// At most one record exists per (UserID, TranslationID).
type LearningProgress struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	TranslationID uuid.UUID  `json:"translation_id"`
	GroupID       uuid.UUID  `json:"group_id"`
	Score         int        `json:"score"`
	ReviewCount   int        `json:"review_count"`
	SuccessRate   float64    `json:"success_rate"`
	LastReviewed  *time.Time `json:"last_reviewed,omitempty"`
	NextReview    time.Time  `json:"next_review"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewLearningProgress creates a fresh record that is due on the creation date.
func NewLearningProgress(userID, translationID, groupID uuid.UUID, now time.Time) (*LearningProgress, error) {
	p := &LearningProgress{
		ID:            uuid.New(),
		UserID:        userID,
		TranslationID: translationID,
		GroupID:       groupID,
		NextReview:    DateOf(now),
		CreatedAt:     now.UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks the record's fields.
func (p *LearningProgress) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if p.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if p.TranslationID == uuid.Nil {
		return NewValidationError("translation_id", "cannot be empty", ErrInvalidID)
	}
	if p.GroupID == uuid.Nil {
		return NewValidationError("group_id", "cannot be empty", ErrInvalidID)
	}
	if p.ReviewCount < 0 {
		return NewValidationError("review_count", "cannot be negative", nil)
	}
	if p.SuccessRate < MinSuccessRate || p.SuccessRate > MaxSuccessRate {
		return NewValidationError("success_rate", "must be between 0 and 100", nil)
	}
	if p.NextReview.IsZero() {
		return NewValidationError("next_review", "must be set", nil)
	}
	return nil
}

// DueItem is a LearningProgress record joined with the translation it tracks,
// as presented in a review session.
type DueItem struct {
	Progress *LearningProgress `json:"progress"`
	Language string            `json:"language"`
	Text     string            `json:"text"`
}

// Stats summarises a user's item-level progress. TotalReviews counts tracked
// items, not cumulative review events.
type Stats struct {
	TotalReviews   int     `json:"total_reviews"`
	AvgSuccessRate float64 `json:"avg_success_rate"`
}
