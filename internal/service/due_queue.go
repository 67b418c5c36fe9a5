package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

// DueQueue answers which groups and items a user should review next. It only
// reads; a returned record may stop being due moments later.
type DueQueue struct {
	groups   store.ProgressGroupStore
	progress store.LearningProgressStore
	logger   *slog.Logger
}

// NewDueQueue creates a DueQueue.
func NewDueQueue(stores Stores, logger *slog.Logger) *DueQueue {
	if stores.Groups == nil || stores.Progress == nil {
		panic("group and progress stores are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DueQueue{
		groups:   stores.Groups,
		progress: stores.Progress,
		logger:   logger.With(slog.String("component", "due_queue")),
	}
}

// DueGroups returns the groups due on or before asOf.
func (q *DueQueue) DueGroups(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ProgressGroup, error) {
	groups, err := q.groups.ListDue(ctx, userID, domain.DateOf(asOf))
	if err != nil {
		return nil, failure(logger.FromContextOrDefault(ctx, q.logger), "due_queue", "due_groups",
			"failed to list due groups", err, slog.String("user_id", userID.String()))
	}
	if groups == nil {
		groups = []*domain.ProgressGroup{}
	}
	return groups, nil
}

// DueItems returns up to limit items due on or before asOf with their
// translation text. A limit of zero or less returns every due item.
func (q *DueQueue) DueItems(ctx context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]*domain.DueItem, error) {
	if limit < 0 {
		limit = 0
	}
	items, err := q.progress.ListDue(ctx, userID, domain.DateOf(asOf), limit)
	if err != nil {
		return nil, failure(logger.FromContextOrDefault(ctx, q.logger), "due_queue", "due_items",
			"failed to list due items", err, slog.String("user_id", userID.String()))
	}
	if items == nil {
		items = []*domain.DueItem{}
	}
	return items, nil
}
