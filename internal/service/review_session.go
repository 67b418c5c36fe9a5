package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/google/uuid"
)

// ItemReview is the outcome of one translation within a session.
type ItemReview struct {
	TranslationID uuid.UUID
	Score         int
	Success       bool
}

// ItemFailure reports an item whose update failed.
type ItemFailure struct {
	TranslationID uuid.UUID
	Err           error
}

// SessionResult holds every update a session made. Group is nil when the
// group update failed, in which case GroupErr says why.
type SessionResult struct {
	Group    *domain.ProgressGroup
	GroupErr error
	Items    []*domain.LearningProgress
	Failures []ItemFailure
}

// Failed reports whether any update of the session failed.
func (r *SessionResult) Failed() bool {
	return r.GroupErr != nil || len(r.Failures) > 0
}

// ReviewSession reviews one sentence: its group and any number of its
// translations. Each record is updated in its own unit of work.
type ReviewSession struct {
	groups  *ProgressGroupManager
	tracker *LearningProgressTracker
	logger  *slog.Logger
}

// NewReviewSession creates a ReviewSession.
func NewReviewSession(groups *ProgressGroupManager, tracker *LearningProgressTracker, logger *slog.Logger) *ReviewSession {
	if groups == nil || tracker == nil {
		panic("group manager and progress tracker are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewSession{
		groups:  groups,
		tracker: tracker,
		logger:  logger.With(slog.String("component", "review_session")),
	}
}

// ReviewSentence applies the item reviews, then the group review. The group
// counts as successful when every item did, so a session needs at least one
// item. Items without a progress record get one first; items of other
// sentences are reported as failures.
//
// If some updates fail the others stay applied; the result lists the
// failures and the returned error wraps ErrPartialSession. A group that does
// not exist or belongs to another user fails the whole session with
// ErrGroupNotFound before anything is written.
func (s *ReviewSession) ReviewSentence(
	ctx context.Context,
	userID, groupID uuid.UUID,
	groupScore float64,
	items []ItemReview,
) (*SessionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("group_id", groupID.String()))

	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "must contain at least one item", nil)
	}

	group, err := s.groups.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, failure(log, "review_session", "review_sentence", "failed to load group", err)
	}
	if group.UserID != userID {
		log.Warn("session group belongs to another user", slog.String("owner_id", group.UserID.String()))
		return nil, ErrGroupNotFound
	}

	result := &SessionResult{Items: make([]*domain.LearningProgress, 0, len(items))}
	allSucceeded := true

	for _, item := range items {
		if !item.Success {
			allSucceeded = false
		}
		progress, err := s.reviewItem(ctx, userID, groupID, item)
		if err != nil {
			log.Warn("item review failed",
				slog.String("translation_id", item.TranslationID.String()),
				slog.String("error", err.Error()))
			result.Failures = append(result.Failures, ItemFailure{TranslationID: item.TranslationID, Err: err})
			continue
		}
		result.Items = append(result.Items, progress)
	}

	result.Group, result.GroupErr = s.groups.UpdateGroup(ctx, groupID, groupScore, allSucceeded)

	if result.Failed() {
		failed := len(result.Failures)
		if result.GroupErr != nil {
			failed++
		}
		return result, fmt.Errorf("%w: %d of %d updates failed", ErrPartialSession, failed, len(items)+1)
	}

	log.Debug("review session completed", slog.Int("items", len(result.Items)))
	return result, nil
}

func (s *ReviewSession) reviewItem(
	ctx context.Context,
	userID, groupID uuid.UUID,
	item ItemReview,
) (*domain.LearningProgress, error) {
	translation, err := s.tracker.translations.GetByID(ctx, item.TranslationID)
	if err != nil {
		return nil, err
	}
	if translation.GroupID != groupID {
		return nil, fmt.Errorf("%w: translation is not part of the reviewed sentence", ErrTranslationNotFound)
	}
	if _, err := s.tracker.EnsureProgress(ctx, userID, item.TranslationID); err != nil {
		return nil, err
	}
	return s.tracker.RecordUserReview(ctx, userID, item.TranslationID, item.Score, item.Success)
}
