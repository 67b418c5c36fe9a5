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

const groupColumns = `id, sentence_id, user_id, group_score, review_count, last_reviewed, next_review, created_at`

// ProgressGroupStore implements store.ProgressGroupStore.
type ProgressGroupStore struct {
	q      querier
	logger *slog.Logger
}

// NewProgressGroupStore creates a ProgressGroupStore. It panics if db is nil.
func NewProgressGroupStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *ProgressGroupStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressGroupStore{
		q:      newQuerier(db, dialect),
		logger: logger.With(slog.String("component", "progress_group_store")),
	}
}

var _ store.ProgressGroupStore = (*ProgressGroupStore)(nil)

// Create inserts group. The unique index on sentence_id enforces one group
// per sentence.
func (s *ProgressGroupStore) Create(ctx context.Context, group *domain.ProgressGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	_, err := s.q.namedExec(ctx, `
		INSERT INTO progress_groups (`+groupColumns+`)
		VALUES (:id, :sentence_id, :user_id, :group_score, :review_count, :last_reviewed, :next_review, :created_at)`,
		newGroupRow(group))
	if err != nil {
		err = specific(err, store.ErrGroupExists)
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to create progress group",
			slog.String("error", err.Error()),
			slog.String("sentence_id", group.SentenceID.String()))
		return err
	}
	return nil
}

// GetByID returns the group with id.
func (s *ProgressGroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressGroup, error) {
	return s.getOne(ctx, `SELECT `+groupColumns+` FROM progress_groups WHERE id = ?`, id)
}

// GetByIDForUpdate returns the group with id and locks its row.
func (s *ProgressGroupStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressGroup, error) {
	return s.getOne(ctx, `SELECT `+groupColumns+` FROM progress_groups WHERE id = ?`+s.q.dialect.ForUpdate, id)
}

// GetBySentenceID returns the group of a sentence.
func (s *ProgressGroupStore) GetBySentenceID(ctx context.Context, sentenceID uuid.UUID) (*domain.ProgressGroup, error) {
	return s.getOne(ctx, `SELECT `+groupColumns+` FROM progress_groups WHERE sentence_id = ?`, sentenceID)
}

func (s *ProgressGroupStore) getOne(ctx context.Context, query string, args ...any) (*domain.ProgressGroup, error) {
	var rows []groupRow
	if err := s.q.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrGroupNotFound
	}
	return rows[0].toDomain(), nil
}

// Update writes the scheduling fields of group.
func (s *ProgressGroupStore) Update(ctx context.Context, group *domain.ProgressGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	res, err := s.q.namedExec(ctx, `
		UPDATE progress_groups
		SET group_score = :group_score,
			review_count = :review_count,
			last_reviewed = :last_reviewed,
			next_review = :next_review
		WHERE id = :id`,
		newGroupRow(group))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update progress group",
			slog.String("error", err.Error()),
			slog.String("group_id", group.ID.String()))
		return err
	}
	return checkRowsAffected(res, store.ErrGroupNotFound)
}

// ListDue returns the user's groups due on or before asOf.
func (s *ProgressGroupStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) ([]*domain.ProgressGroup, error) {
	var rows []groupRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT `+groupColumns+`
		FROM progress_groups
		WHERE user_id = ? AND next_review <= ?
		ORDER BY next_review, id`, userID, domain.DateOf(asOf))
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ProgressGroup, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// WithTx returns a ProgressGroupStore bound to tx.
func (s *ProgressGroupStore) WithTx(tx *sql.Tx) store.ProgressGroupStore {
	return &ProgressGroupStore{q: s.q.withTx(tx), logger: s.logger}
}
