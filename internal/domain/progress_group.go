package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgressGroup is the scheduling state of a whole sentence: all of its
// translations are reviewed together as one unit.
type ProgressGroup struct {
	ID           uuid.UUID  `json:"id"`
	SentenceID   uuid.UUID  `json:"sentence_id"`
	UserID       uuid.UUID  `json:"user_id"`
	GroupScore   float64    `json:"group_score"`
	ReviewCount  int        `json:"review_count"`
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
	NextReview   time.Time  `json:"next_review"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewProgressGroup creates a group that is due on the creation date.
func NewProgressGroup(sentenceID, userID uuid.UUID, now time.Time) (*ProgressGroup, error) {
	g := &ProgressGroup{
		ID:         uuid.New(),
		SentenceID: sentenceID,
		UserID:     userID,
		NextReview: DateOf(now),
		CreatedAt:  now.UTC(),
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate checks the group's fields.
func (g *ProgressGroup) Validate() error {
	if g.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if g.SentenceID == uuid.Nil {
		return NewValidationError("sentence_id", "cannot be empty", ErrInvalidID)
	}
	if g.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if g.ReviewCount < 0 {
		return NewValidationError("review_count", "cannot be negative", nil)
	}
	if g.NextReview.IsZero() {
		return NewValidationError("next_review", "must be set", nil)
	}
	return nil
}
