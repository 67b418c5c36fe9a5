package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/google/uuid"
)

// UserStore persists users and their target languages.
type UserStore interface {
	// Create inserts a user. Returns ErrUsernameExists on a username collision.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound when no user has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListIDs returns the ids of all users, oldest first.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// AddLanguage attaches a target language. Returns ErrLanguageExists if
	// the user already learns it.
	AddLanguage(ctx context.Context, lang *domain.TargetLanguage) error

	// ListLanguages returns the user's target languages in insertion order.
	ListLanguages(ctx context.Context, userID uuid.UUID) ([]string, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}

// SentenceStore persists sentences.
type SentenceStore interface {
	Create(ctx context.Context, sentence *domain.Sentence) error

	// GetByID returns ErrSentenceNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sentence, error)

	// ListByUser returns the user's sentences, newest first. An empty category
	// matches every sentence.
	ListByUser(ctx context.Context, userID uuid.UUID, category string) ([]*domain.Sentence, error)

	// ListMissingLanguage returns the user's sentences that have no
	// translation in language.
	ListMissingLanguage(ctx context.Context, userID uuid.UUID, language string) ([]*domain.Sentence, error)

	// Delete removes the sentence together with its group, translations,
	// progress and review log. Returns ErrSentenceNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) SentenceStore
}

// TranslationStore persists translations.
type TranslationStore interface {
	// Create inserts a translation. Returns ErrTranslationExists when the
	// sentence already has one in the same language.
	Create(ctx context.Context, translation *domain.Translation) error

	// GetByID returns ErrTranslationNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Translation, error)

	// ListBySentence returns the sentence's translations ordered by language.
	ListBySentence(ctx context.Context, sentenceID uuid.UUID) ([]*domain.Translation, error)

	WithTx(tx *sql.Tx) TranslationStore
}

// ProgressGroupStore persists group-level scheduling state.
type ProgressGroupStore interface {
	// Create inserts a group. Returns ErrGroupExists when the sentence
	// already has one.
	Create(ctx context.Context, group *domain.ProgressGroup) error

	// GetByID returns ErrGroupNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressGroup, error)

	// GetByIDForUpdate is GetByID that also locks the row until the enclosing
	// transaction ends. It must be called on a store bound to a tx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressGroup, error)

	// GetBySentenceID returns ErrGroupNotFound when absent.
	GetBySentenceID(ctx context.Context, sentenceID uuid.UUID) (*domain.ProgressGroup, error)

	// Update writes the mutable scheduling fields of the group.
	Update(ctx context.Context, group *domain.ProgressGroup) error

	// ListDue returns the user's groups with next_review on or before asOf,
	// ordered by next_review then id. Never returns nil.
	ListDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ProgressGroup, error)

	WithTx(tx *sql.Tx) ProgressGroupStore
}

// LearningProgressStore persists item-level scheduling state.
type LearningProgressStore interface {
	// Create inserts a record. Returns ErrProgressExists when the
	// (user, translation) pair already has one.
	Create(ctx context.Context, progress *domain.LearningProgress) error

	// GetByID returns ErrProgressNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningProgress, error)

	// GetByUserAndTranslation returns ErrProgressNotFound when absent.
	GetByUserAndTranslation(ctx context.Context, userID, translationID uuid.UUID) (*domain.LearningProgress, error)

	// GetByTranslationForUpdate returns the oldest record of the translation
	// and locks it until the enclosing transaction ends.
	GetByTranslationForUpdate(ctx context.Context, translationID uuid.UUID) (*domain.LearningProgress, error)

	// GetByUserAndTranslationForUpdate returns the record of the pair and
	// locks it until the enclosing transaction ends.
	GetByUserAndTranslationForUpdate(ctx context.Context, userID, translationID uuid.UUID) (*domain.LearningProgress, error)

	// Update writes the mutable scheduling fields of the record.
	Update(ctx context.Context, progress *domain.LearningProgress) error

	// ListDue returns the user's due items joined with their translations,
	// ordered by next_review then id. limit <= 0 means no limit.
	ListDue(ctx context.Context, userID uuid.UUID, asOf time.Time, limit int) ([]*domain.DueItem, error)

	// Stats returns the row count and mean success rate of the user's
	// records, {0, 0} when there are none.
	Stats(ctx context.Context, userID uuid.UUID) (domain.Stats, error)

	WithTx(tx *sql.Tx) LearningProgressStore
}

// ReviewLogStore appends and reads the review history.
type ReviewLogStore interface {
	Append(ctx context.Context, entry *domain.ReviewLogEntry) error

	// ListByUser returns the user's most recent entries first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ReviewLogEntry, error)

	WithTx(tx *sql.Tx) ReviewLogStore
}
