package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

const progressColumns = `id, user_id, translation_id, group_id, score, review_count, success_rate, last_reviewed, next_review, created_at`

// LearningProgressStore implements store.LearningProgressStore.
type LearningProgressStore struct {
	q      querier
	logger *slog.Logger
}

// NewLearningProgressStore creates a LearningProgressStore. It panics if db
// is nil.
func NewLearningProgressStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *LearningProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LearningProgressStore{
		q:      newQuerier(db, dialect),
		logger: logger.With(slog.String("component", "learning_progress_store")),
	}
}

var _ store.LearningProgressStore = (*LearningProgressStore)(nil)

// Create inserts progress. The unique index on (user_id, translation_id)
// rejects a second record for the same pair with store.ErrProgressExists.
func (s *LearningProgressStore) Create(ctx context.Context, progress *domain.LearningProgress) error {
	if err := progress.Validate(); err != nil {
		return err
	}

	_, err := s.q.namedExec(ctx, `
		INSERT INTO learning_progress (`+progressColumns+`)
		VALUES (:id, :user_id, :translation_id, :group_id, :score, :review_count, :success_rate,
			:last_reviewed, :next_review, :created_at)`,
		newProgressRow(progress))
	return specific(err, store.ErrProgressExists)
}

// GetByID returns the record with id.
func (s *LearningProgressStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningProgress, error) {
	return s.getOne(ctx, `SELECT `+progressColumns+` FROM learning_progress WHERE id = ?`, id)
}

// GetByUserAndTranslation returns the record of the pair.
func (s *LearningProgressStore) GetByUserAndTranslation(
	ctx context.Context,
	userID, translationID uuid.UUID,
) (*domain.LearningProgress, error) {
	return s.getOne(ctx, `
		SELECT `+progressColumns+`
		FROM learning_progress
		WHERE user_id = ? AND translation_id = ?`, userID, translationID)
}

// GetByTranslationForUpdate returns the oldest record of translationID and
// locks its row.
func (s *LearningProgressStore) GetByTranslationForUpdate(
	ctx context.Context,
	translationID uuid.UUID,
) (*domain.LearningProgress, error) {
	return s.getOne(ctx, `
		SELECT `+progressColumns+`
		FROM learning_progress
		WHERE translation_id = ?
		ORDER BY created_at, id
		LIMIT 1`+s.q.dialect.ForUpdate, translationID)
}

// GetByUserAndTranslationForUpdate returns the record of the pair and locks
// its row.
func (s *LearningProgressStore) GetByUserAndTranslationForUpdate(
	ctx context.Context,
	userID, translationID uuid.UUID,
) (*domain.LearningProgress, error) {
	return s.getOne(ctx, `
		SELECT `+progressColumns+`
		FROM learning_progress
		WHERE user_id = ? AND translation_id = ?`+s.q.dialect.ForUpdate, userID, translationID)
}

func (s *LearningProgressStore) getOne(ctx context.Context, query string, args ...any) (*domain.LearningProgress, error) {
	var rows []progressRow
	if err := s.q.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrProgressNotFound
	}
	return rows[0].toDomain(), nil
}

// Update writes the scheduling fields of progress.
func (s *LearningProgressStore) Update(ctx context.Context, progress *domain.LearningProgress) error {
	if err := progress.Validate(); err != nil {
		return err
	}

	res, err := s.q.namedExec(ctx, `
		UPDATE learning_progress
		SET score = :score,
			review_count = :review_count,
			success_rate = :success_rate,
			last_reviewed = :last_reviewed,
			next_review = :next_review
		WHERE id = :id`,
		newProgressRow(progress))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update learning progress",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return err
	}
	return checkRowsAffected(res, store.ErrProgressNotFound)
}

// ListDue returns the user's due items with their translation text.
func (s *LearningProgressStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
	limit int,
) ([]*domain.DueItem, error) {
	var rows []dueItemRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT lp.id AS id, lp.user_id AS user_id, lp.translation_id AS translation_id,
			lp.group_id AS group_id, lp.score AS score, lp.review_count AS review_count,
			lp.success_rate AS success_rate, lp.last_reviewed AS last_reviewed,
			lp.next_review AS next_review, lp.created_at AS created_at,
			t.language AS language, t.text AS text
		FROM learning_progress lp
		JOIN translations t ON t.id = lp.translation_id
		WHERE lp.user_id = ? AND lp.next_review <= ?
		ORDER BY lp.next_review, lp.id`+limitClause(limit), userID, domain.DateOf(asOf))
	if err != nil {
		return nil, err
	}

	out := make([]*domain.DueItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, &domain.DueItem{
			Progress: r.progressRow.toDomain(),
			Language: r.Language,
			Text:     r.Text,
		})
	}
	return out, nil
}

// Stats returns the count and mean success rate of the user's records.
func (s *LearningProgressStore) Stats(ctx context.Context, userID uuid.UUID) (domain.Stats, error) {
	var stats domain.Stats
	err := s.q.queryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(success_rate), 0)
		FROM learning_progress
		WHERE user_id = ?`, []any{userID}, &stats.TotalReviews, &stats.AvgSuccessRate)
	if err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

// WithTx returns a LearningProgressStore bound to tx.
func (s *LearningProgressStore) WithTx(tx *sql.Tx) store.LearningProgressStore {
	return &LearningProgressStore{q: s.q.withTx(tx), logger: s.logger}
}
