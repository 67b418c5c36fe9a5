package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

const reviewLogColumns = `id, user_id, group_id, translation_id, kind, success, score, review_count, interval_days, reviewed_at, next_review`

// ReviewLogStore implements store.ReviewLogStore.
type ReviewLogStore struct {
	q      querier
	logger *slog.Logger
}

// NewReviewLogStore creates a ReviewLogStore. It panics if db is nil.
func NewReviewLogStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *ReviewLogStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewLogStore{
		q:      newQuerier(db, dialect),
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Append inserts entry.
func (s *ReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLogEntry) error {
	_, err := s.q.namedExec(ctx, `
		INSERT INTO review_log (`+reviewLogColumns+`)
		VALUES (:id, :user_id, :group_id, :translation_id, :kind, :success, :score, :review_count,
			:interval_days, :reviewed_at, :next_review)`,
		newReviewLogRow(entry))
	return err
}

// ListByUser returns the user's latest entries first.
func (s *ReviewLogStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ReviewLogEntry, error) {
	var rows []reviewLogRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT `+reviewLogColumns+`
		FROM review_log
		WHERE user_id = ?
		ORDER BY reviewed_at DESC, id`+limitClause(limit), userID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ReviewLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// WithTx returns a ReviewLogStore bound to tx.
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &ReviewLogStore{q: s.q.withTx(tx), logger: s.logger}
}
