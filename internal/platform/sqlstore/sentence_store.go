package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

const sentenceColumns = `s.id AS id, s.user_id AS user_id, s.text AS text, s.category AS category, s.created_at AS created_at`

// SentenceStore implements store.SentenceStore.
type SentenceStore struct {
	q      querier
	logger *slog.Logger
}

// NewSentenceStore creates a SentenceStore. It panics if db is nil.
func NewSentenceStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SentenceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SentenceStore{
		q:      newQuerier(db, dialect),
		logger: logger.With(slog.String("component", "sentence_store")),
	}
}

var _ store.SentenceStore = (*SentenceStore)(nil)

// Create inserts sentence.
func (s *SentenceStore) Create(ctx context.Context, sentence *domain.Sentence) error {
	if err := sentence.Validate(); err != nil {
		return err
	}

	_, err := s.q.namedExec(ctx, `
		INSERT INTO sentences (id, user_id, text, category, created_at)
		VALUES (:id, :user_id, :text, :category, :created_at)`,
		newSentenceRow(sentence))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to create sentence",
			slog.String("error", err.Error()),
			slog.String("sentence_id", sentence.ID.String()),
			slog.String("user_id", sentence.UserID.String()))
		return err
	}
	return nil
}

// GetByID returns the sentence with id.
func (s *SentenceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sentence, error) {
	var rows []sentenceRow
	err := s.q.selectAll(ctx, &rows, `SELECT `+sentenceColumns+` FROM sentences s WHERE s.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrSentenceNotFound
	}
	return rows[0].toDomain(), nil
}

// ListByUser returns the user's sentences, newest first.
func (s *SentenceStore) ListByUser(ctx context.Context, userID uuid.UUID, category string) ([]*domain.Sentence, error) {
	query := `SELECT ` + sentenceColumns + ` FROM sentences s WHERE s.user_id = ?`
	args := []any{userID}
	if category != "" {
		query += ` AND s.category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY s.created_at DESC, s.id`

	var rows []sentenceRow
	if err := s.q.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return sentencesToDomain(rows), nil
}

// ListMissingLanguage returns the user's sentences without a translation in
// language, oldest first.
func (s *SentenceStore) ListMissingLanguage(
	ctx context.Context,
	userID uuid.UUID,
	language string,
) ([]*domain.Sentence, error) {
	var rows []sentenceRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT `+sentenceColumns+`
		FROM sentences s
		WHERE s.user_id = ?
		  AND NOT EXISTS (
			SELECT 1 FROM translations t
			WHERE t.sentence_id = s.id AND t.language = ?
		  )
		ORDER BY s.created_at, s.id`, userID, language)
	if err != nil {
		return nil, err
	}
	return sentencesToDomain(rows), nil
}

// Delete removes the sentence. The schema cascades the delete to the group,
// translations, progress records and review log.
func (s *SentenceStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.q.exec(ctx, `DELETE FROM sentences WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res, store.ErrSentenceNotFound); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("sentence deleted",
		slog.String("sentence_id", id.String()))
	return nil
}

// WithTx returns a SentenceStore bound to tx.
func (s *SentenceStore) WithTx(tx *sql.Tx) store.SentenceStore {
	return &SentenceStore{q: s.q.withTx(tx), logger: s.logger}
}

func sentencesToDomain(rows []sentenceRow) []*domain.Sentence {
	out := make([]*domain.Sentence, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
