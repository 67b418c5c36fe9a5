package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/domain/srs"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

// ProgressGroupManager schedules reviews of whole sentences.
type ProgressGroupManager struct {
	tx        store.Transactor
	groups    store.ProgressGroupStore
	sentences store.SentenceStore
	users     store.UserStore
	logs      store.ReviewLogStore
	scheduler srs.Service
	now       Clock
	logger    *slog.Logger
}

// NewProgressGroupManager creates a ProgressGroupManager. It panics if a
// required dependency is nil.
func NewProgressGroupManager(
	tx store.Transactor,
	stores Stores,
	scheduler srs.Service,
	clock Clock,
	logger *slog.Logger,
) *ProgressGroupManager {
	if tx == nil {
		panic("transactor cannot be nil")
	}
	if stores.Groups == nil || stores.Sentences == nil || stores.Users == nil || stores.ReviewLogs == nil {
		panic("group, sentence, user and review log stores are required")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressGroupManager{
		tx:        tx,
		groups:    stores.Groups,
		sentences: stores.Sentences,
		users:     stores.Users,
		logs:      stores.ReviewLogs,
		scheduler: scheduler,
		now:       orSystem(clock),
		logger:    logger.With(slog.String("component", "progress_group_manager")),
	}
}

// CreateGroup creates the progress group of a sentence, due today.
// It returns ErrSentenceNotFound or ErrUserNotFound when either is absent
// and store.ErrGroupExists when the sentence already has a group.
func (m *ProgressGroupManager) CreateGroup(ctx context.Context, sentenceID, userID uuid.UUID) (*domain.ProgressGroup, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	var created *domain.ProgressGroup
	err := m.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := m.users.WithTx(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		if _, err := m.sentences.WithTx(tx).GetByID(ctx, sentenceID); err != nil {
			return err
		}

		group, err := domain.NewProgressGroup(sentenceID, userID, m.now())
		if err != nil {
			return err
		}
		if err := m.groups.WithTx(tx).Create(ctx, group); err != nil {
			return err
		}
		created = group
		return nil
	})
	if err != nil {
		return nil, m.fail(log, "create_group", "failed to create progress group", err,
			slog.String("sentence_id", sentenceID.String()))
	}

	log.Debug("created progress group",
		slog.String("group_id", created.ID.String()),
		slog.String("sentence_id", sentenceID.String()))
	return created, nil
}

// UpdateGroup records one review of a group. groupScore is stored as given.
// Every call advances review_count by one.
func (m *ProgressGroupManager) UpdateGroup(
	ctx context.Context,
	groupID uuid.UUID,
	groupScore float64,
	success bool,
) (*domain.ProgressGroup, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	var updated *domain.ProgressGroup
	var interval int
	err := m.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := m.groups.WithTx(tx)

		current, err := groups.GetByIDForUpdate(ctx, groupID)
		if err != nil {
			return err
		}

		next, res, err := m.scheduler.ScheduleGroup(current, groupScore, success, m.now())
		if err != nil {
			return err
		}
		if err := groups.Update(ctx, next); err != nil {
			return err
		}
		if err := m.logs.WithTx(tx).Append(ctx, domain.NewGroupReviewLog(next, success, res.IntervalDays)); err != nil {
			return err
		}

		updated = next
		interval = res.IntervalDays
		return nil
	})
	if err != nil {
		return nil, m.fail(log, "update_group", "failed to record group review", err,
			slog.String("group_id", groupID.String()))
	}

	log.Debug("recorded group review",
		slog.String("group_id", groupID.String()),
		slog.Bool("success", success),
		slog.Int("review_count", updated.ReviewCount),
		slog.Int("interval_days", interval))
	return updated, nil
}

// GetDueGroups returns the user's groups due on or before asOf, ordered by
// next review date then id. The result is never nil.
func (m *ProgressGroupManager) GetDueGroups(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) ([]*domain.ProgressGroup, error) {
	groups, err := m.groups.ListDue(ctx, userID, domain.DateOf(asOf))
	if err != nil {
		return nil, m.fail(logger.FromContextOrDefault(ctx, m.logger), "get_due_groups",
			"failed to list due groups", err, slog.String("user_id", userID.String()))
	}
	if groups == nil {
		groups = []*domain.ProgressGroup{}
	}
	return groups, nil
}

// PostponeGroup moves the next review of a group days later.
func (m *ProgressGroupManager) PostponeGroup(ctx context.Context, groupID uuid.UUID, days int) (*domain.ProgressGroup, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if days < 1 {
		return nil, domain.NewValidationError("days", "must be at least 1", srs.ErrInvalidDays)
	}

	var updated *domain.ProgressGroup
	err := m.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		next, err := m.postpone(ctx, m.groups.WithTx(tx), groupID, days)
		updated = next
		return err
	})
	if err != nil {
		return nil, m.fail(log, "postpone_group", "failed to postpone group", err,
			slog.String("group_id", groupID.String()))
	}
	return updated, nil
}

// ApplySchedule postpones every group of the user that is due today by days
// and returns the updated groups.
func (m *ProgressGroupManager) ApplySchedule(ctx context.Context, userID uuid.UUID, days int) ([]*domain.ProgressGroup, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if days < 1 {
		return nil, domain.NewValidationError("days", "must be at least 1", srs.ErrInvalidDays)
	}

	var updated []*domain.ProgressGroup
	err := m.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groups := m.groups.WithTx(tx)
		updated = updated[:0]

		due, err := groups.ListDue(ctx, userID, domain.DateOf(m.now()))
		if err != nil {
			return err
		}
		for _, g := range due {
			next, err := m.postpone(ctx, groups, g.ID, days)
			if err != nil {
				return err
			}
			updated = append(updated, next)
		}
		return nil
	})
	if err != nil {
		return nil, m.fail(log, "apply_schedule", "failed to reschedule due groups", err,
			slog.String("user_id", userID.String()))
	}
	if updated == nil {
		updated = []*domain.ProgressGroup{}
	}

	log.Info("rescheduled due groups",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(updated)),
		slog.Int("days", days))
	return updated, nil
}

func (m *ProgressGroupManager) postpone(
	ctx context.Context,
	groups store.ProgressGroupStore,
	groupID uuid.UUID,
	days int,
) (*domain.ProgressGroup, error) {
	current, err := groups.GetByIDForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	next, err := m.scheduler.PostponeGroup(current, days)
	if err != nil {
		return nil, err
	}
	if err := groups.Update(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (m *ProgressGroupManager) fail(log *slog.Logger, op, msg string, err error, attrs ...any) error {
	return failure(log, "progress_group_manager", op, msg, err, attrs...)
}
