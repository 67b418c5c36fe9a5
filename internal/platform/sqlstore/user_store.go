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

// UserStore implements store.UserStore.
type UserStore struct {
	q      querier
	logger *slog.Logger
}

// NewUserStore creates a UserStore. It panics if db is nil.
func NewUserStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		q:      newQuerier(db, dialect),
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Create inserts user.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	_, err := s.q.namedExec(ctx, `
		INSERT INTO users (id, username, native_language, created_at)
		VALUES (:id, :username, :native_language, :created_at)`,
		userRow{ID: user.ID, Username: user.Username, NativeLanguage: user.NativeLanguage, CreatedAt: user.CreatedAt.UTC()})
	if err != nil {
		err = specific(err, store.ErrUsernameExists)
		log.Warn("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID returns the user with id.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var rows []userRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT id, username, native_language, created_at
		FROM users
		WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrUserNotFound
	}
	return rows[0].toDomain(), nil
}

// ListIDs returns every user id, oldest first.
func (s *UserStore) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var rows []userRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT id, username, native_language, created_at
		FROM users
		ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// AddLanguage attaches a target language to a user.
func (s *UserStore) AddLanguage(ctx context.Context, lang *domain.TargetLanguage) error {
	_, err := s.q.namedExec(ctx, `
		INSERT INTO user_languages (user_id, language, created_at)
		VALUES (:user_id, :language, :created_at)`,
		languageRow{UserID: lang.UserID, Language: lang.Language, CreatedAt: lang.CreatedAt.UTC()})
	if err != nil {
		return specific(err, store.ErrLanguageExists)
	}
	return nil
}

// ListLanguages returns the user's target languages in insertion order.
func (s *UserStore) ListLanguages(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var rows []languageRow
	err := s.q.selectAll(ctx, &rows, `
		SELECT user_id, language, created_at
		FROM user_languages
		WHERE user_id = ?
		ORDER BY created_at, language`, userID)
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(rows))
	for _, r := range rows {
		langs = append(langs, r.Language)
	}
	return langs, nil
}

// WithTx returns a UserStore bound to tx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{q: s.q.withTx(tx), logger: s.logger}
}
