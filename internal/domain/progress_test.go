package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+9", 9*60*60)
	local := time.Date(2024, 3, 11, 2, 0, 0, 0, loc) // 2024-03-10 17:00 UTC

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DateOf(local))
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), AddDays(fixedNow, 2))
	assert.True(t, IsDue(DateOf(fixedNow), fixedNow))
	assert.False(t, IsDue(AddDays(fixedNow, 1), fixedNow))
}

func TestNewProgressGroup(t *testing.T) {
	t.Parallel()

	g, err := NewProgressGroup(uuid.New(), uuid.New(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, g.ReviewCount)
	assert.Zero(t, g.GroupScore)
	assert.Nil(t, g.LastReviewed)
	assert.Equal(t, DateOf(fixedNow), g.NextReview)

	_, err = NewProgressGroup(uuid.Nil, uuid.New(), fixedNow)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestNewLearningProgress(t *testing.T) {
	t.Parallel()

	p, err := NewLearningProgress(uuid.New(), uuid.New(), uuid.New(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, p.ReviewCount)
	assert.Zero(t, p.SuccessRate)
	assert.Zero(t, p.Score)
	assert.Equal(t, DateOf(fixedNow), p.NextReview)

	p.SuccessRate = 100.5
	assert.ErrorIs(t, p.Validate(), ErrValidation)

	p.SuccessRate = 50
	p.ReviewCount = -1
	assert.ErrorIs(t, p.Validate(), ErrValidation)
}

func TestReviewLogEntries(t *testing.T) {
	t.Parallel()

	reviewed := fixedNow
	g := &ProgressGroup{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		GroupScore:   0.75,
		ReviewCount:  3,
		LastReviewed: &reviewed,
		NextReview:   AddDays(fixedNow, 6),
	}
	entry := NewGroupReviewLog(g, true, 6)
	assert.Equal(t, ReviewKindGroup, entry.Kind)
	assert.Nil(t, entry.TranslationID)
	assert.Equal(t, 0.75, entry.Score)
	assert.Equal(t, reviewed, entry.ReviewedAt)

	p := &LearningProgress{
		ID:            uuid.New(),
		UserID:        g.UserID,
		TranslationID: uuid.New(),
		GroupID:       g.ID,
		Score:         4,
		ReviewCount:   1,
		NextReview:    AddDays(fixedNow, 2),
	}
	item := NewItemReviewLog(p, false, 1)
	require.NotNil(t, item.TranslationID)
	assert.Equal(t, p.TranslationID, *item.TranslationID)
	assert.Equal(t, ReviewKindItem, item.Kind)
	assert.True(t, item.ReviewedAt.IsZero())
}
