package sqlstore

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

// TranslationStore implements store.TranslationStore.
type TranslationStore struct {
	q      querier
	logger *slog.Logger
}

// NewTranslationStore creates a TranslationStore. It panics if db is nil.
func NewTranslationStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TranslationStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationStore{
		q:      newQuerier(db, dialect),
		logger: logger.With(slog.String("component", "translation_store")),
	}
}

var _ store.TranslationStore = (*TranslationStore)(nil)

// Create inserts translation.
func (s *TranslationStore) Create(ctx context.Context, translation *domain.Translation) error {
	if err := translation.Validate(); err != nil {
		return err
	}

	_, err := s.q.namedExec(ctx, `
		INSERT INTO translations (id, sentence_id, group_id, language, text, created_at)
		VALUES (:id, :sentence_id, :group_id, :language, :text, :created_at)`,
		newTranslationRow(translation))
	return specific(err, store.ErrTranslationExists)
}

// GetByID returns the translation with id.
func (s *TranslationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Translation, error) {
	var rows []translationRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT id, sentence_id, group_id, language, text, created_at
		FROM translations
		WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrTranslationNotFound
	}
	return rows[0].toDomain(), nil
}

// ListBySentence returns the sentence's translations ordered by language.
func (s *TranslationStore) ListBySentence(ctx context.Context, sentenceID uuid.UUID) ([]*domain.Translation, error) {
	var rows []translationRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT id, sentence_id, group_id, language, text, created_at
		FROM translations
		WHERE sentence_id = ?
		ORDER BY language`, sentenceID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Translation, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// WithTx returns a TranslationStore bound to tx.
func (s *TranslationStore) WithTx(tx *sql.Tx) store.TranslationStore {
	return &TranslationStore{q: s.q.withTx(tx), logger: s.logger}
}
