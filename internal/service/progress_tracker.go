package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/domain/srs"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/redact"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

// LearningProgressTracker schedules reviews of single translations.
type LearningProgressTracker struct {
	tx           store.Transactor
	progress     store.LearningProgressStore
	translations store.TranslationStore
	groups       store.ProgressGroupStore
	logs         store.ReviewLogStore
	scheduler    srs.Service
	now          Clock
	logger       *slog.Logger
}

// NewLearningProgressTracker creates a LearningProgressTracker. It panics if
// a required dependency is nil.
func NewLearningProgressTracker(
	tx store.Transactor,
	stores Stores,
	scheduler srs.Service,
	clock Clock,
	logger *slog.Logger,
) *LearningProgressTracker {
	if tx == nil {
		panic("transactor cannot be nil")
	}
	if stores.Progress == nil || stores.Translations == nil || stores.Groups == nil || stores.ReviewLogs == nil {
		panic("progress, translation, group and review log stores are required")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LearningProgressTracker{
		tx:           tx,
		progress:     stores.Progress,
		translations: stores.Translations,
		groups:       stores.Groups,
		logs:         stores.ReviewLogs,
		scheduler:    scheduler,
		now:          orSystem(clock),
		logger:       logger.With(slog.String("component", "learning_progress_tracker")),
	}
}

// EnsureProgress returns the user's progress record for a translation,
// creating it on first use. An existing record is returned unchanged.
// It returns ErrTranslationNotFound when the translation does not exist or
// belongs to a sentence of another user.
func (t *LearningProgressTracker) EnsureProgress(
	ctx context.Context,
	userID, translationID uuid.UUID,
) (*domain.LearningProgress, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)
	attrs := []any{
		slog.String("user_id", userID.String()),
		slog.String("translation_id", translationID.String()),
	}

	existing, err := t.progress.GetByUserAndTranslation(ctx, userID, translationID)
	if err == nil {
		return existing, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, t.fail(log, "ensure_progress", "failed to look up progress", err, attrs...)
	}

	translation, err := t.ownedTranslation(ctx, userID, translationID)
	if err != nil {
		return nil, t.fail(log, "ensure_progress", "failed to look up translation", err, attrs...)
	}

	progress, err := domain.NewLearningProgress(userID, translation.ID, translation.GroupID, t.now())
	if err != nil {
		return nil, err
	}

	err = t.progress.Create(ctx, progress)
	switch {
	case err == nil:
		log.Debug("created learning progress", append(attrs, slog.String("progress_id", progress.ID.String()))...)
		return progress, nil
	case store.IsDuplicateError(err):
		// Lost the insert race; the winner's row is the record.
		winner, getErr := t.progress.GetByUserAndTranslation(ctx, userID, translationID)
		if getErr != nil {
			return nil, t.fail(log, "ensure_progress", "failed to read concurrently created progress", getErr, attrs...)
		}
		return winner, nil
	default:
		return nil, t.fail(log, "ensure_progress", "failed to create progress", err, attrs...)
	}
}

// RecordReview records one review of a translation. The progress record must
// exist; ErrProgressNotFound is returned otherwise. newScore is stored as
// given. When several users track the translation, the oldest record is
// reviewed; RecordUserReview picks the record of one user.
func (t *LearningProgressTracker) RecordReview(
	ctx context.Context,
	translationID uuid.UUID,
	newScore int,
	success bool,
) (*domain.LearningProgress, error) {
	return t.recordReview(ctx, translationID, newScore, success,
		func(ctx context.Context, progress store.LearningProgressStore) (*domain.LearningProgress, error) {
			return progress.GetByTranslationForUpdate(ctx, translationID)
		})
}

// RecordUserReview records one review of the user's progress record for a
// translation. It returns ErrProgressNotFound when the user has none.
func (t *LearningProgressTracker) RecordUserReview(
	ctx context.Context,
	userID, translationID uuid.UUID,
	newScore int,
	success bool,
) (*domain.LearningProgress, error) {
	return t.recordReview(ctx, translationID, newScore, success,
		func(ctx context.Context, progress store.LearningProgressStore) (*domain.LearningProgress, error) {
			return progress.GetByUserAndTranslationForUpdate(ctx, userID, translationID)
		})
}

// lockFn loads and locks the progress record a unit of work changes.
type lockFn func(ctx context.Context, progress store.LearningProgressStore) (*domain.LearningProgress, error)

func (t *LearningProgressTracker) recordReview(
	ctx context.Context,
	translationID uuid.UUID,
	newScore int,
	success bool,
	lock lockFn,
) (*domain.LearningProgress, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	var updated *domain.LearningProgress
	var interval int
	err := t.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progress := t.progress.WithTx(tx)

		current, err := lock(ctx, progress)
		if err != nil {
			return err
		}

		next, res, err := t.scheduler.ScheduleItem(current, newScore, success, t.now())
		if err != nil {
			return err
		}
		if err := progress.Update(ctx, next); err != nil {
			return err
		}
		if err := t.logs.WithTx(tx).Append(ctx, domain.NewItemReviewLog(next, success, res.IntervalDays)); err != nil {
			return err
		}

		updated = next
		interval = res.IntervalDays
		return nil
	})
	if err != nil {
		return nil, t.fail(log, "record_review", "failed to record review", err,
			slog.String("translation_id", translationID.String()))
	}

	log.Debug("recorded item review",
		slog.String("translation_id", translationID.String()),
		slog.String("progress_id", updated.ID.String()),
		slog.Bool("success", success),
		slog.Int("review_count", updated.ReviewCount),
		slog.Float64("success_rate", updated.SuccessRate),
		slog.Int("interval_days", interval))
	return updated, nil
}

// ItemSchedule sets the next review date of one translation.
type ItemSchedule struct {
	TranslationID uuid.UUID
	NextReview    time.Time
}

// ScheduleResult holds the records a schedule changed and the entries that
// could not be applied.
type ScheduleResult struct {
	Items    []*domain.LearningProgress
	Failures []ItemFailure
}

// ScheduleItems sets explicit next review dates on the user's progress
// records, truncated to calendar days. Review counts and rates are kept.
// Each entry is applied in its own unit of work; when some fail the others
// stay applied and the returned error wraps ErrPartialSchedule.
func (t *LearningProgressTracker) ScheduleItems(
	ctx context.Context,
	userID uuid.UUID,
	schedule []ItemSchedule,
) (*ScheduleResult, error) {
	log := logger.FromContextOrDefault(ctx, t.logger).With(slog.String("user_id", userID.String()))

	if len(schedule) == 0 {
		return nil, domain.NewValidationError("items", "must contain at least one item", nil)
	}

	result := &ScheduleResult{Items: make([]*domain.LearningProgress, 0, len(schedule))}
	for _, entry := range schedule {
		progress, err := t.scheduleItem(ctx, userID, entry)
		if err != nil {
			log.Warn("item schedule failed",
				slog.String("translation_id", entry.TranslationID.String()),
				slog.String("error", redact.Error(err)))
			result.Failures = append(result.Failures, ItemFailure{TranslationID: entry.TranslationID, Err: err})
			continue
		}
		result.Items = append(result.Items, progress)
	}

	if len(result.Failures) > 0 {
		return result, fmt.Errorf("%w: %d of %d items failed", ErrPartialSchedule, len(result.Failures), len(schedule))
	}
	log.Info("scheduled items", slog.Int("count", len(result.Items)))
	return result, nil
}

func (t *LearningProgressTracker) scheduleItem(
	ctx context.Context,
	userID uuid.UUID,
	entry ItemSchedule,
) (*domain.LearningProgress, error) {
	if entry.NextReview.IsZero() {
		return nil, domain.NewValidationError("next_review", "is required", nil)
	}

	var updated *domain.LearningProgress
	err := t.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progress := t.progress.WithTx(tx)

		current, err := progress.GetByUserAndTranslationForUpdate(ctx, userID, entry.TranslationID)
		if err != nil {
			return err
		}
		next := *current
		next.NextReview = domain.DateOf(entry.NextReview)
		if err := progress.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ownedTranslation returns the translation when its sentence belongs to
// userID, ErrTranslationNotFound otherwise.
func (t *LearningProgressTracker) ownedTranslation(
	ctx context.Context,
	userID, translationID uuid.UUID,
) (*domain.Translation, error) {
	translation, err := t.translations.GetByID(ctx, translationID)
	if err != nil {
		return nil, err
	}
	group, err := t.groups.GetByID(ctx, translation.GroupID)
	if err != nil {
		return nil, err
	}
	if group.UserID != userID {
		return nil, ErrTranslationNotFound
	}
	return translation, nil
}

func (t *LearningProgressTracker) fail(log *slog.Logger, op, msg string, err error, attrs ...any) error {
	return failure(log, "learning_progress_tracker", op, msg, err, attrs...)
}
