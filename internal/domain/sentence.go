package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxSentenceLen = 1000
	maxCategoryLen = 64
)

// Sentence is a piece of source text in the owner's native language.
type Sentence struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSentence creates a validated sentence owned by userID.
func NewSentence(userID uuid.UUID, text, category string, now time.Time) (*Sentence, error) {
	s := &Sentence{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      strings.TrimSpace(text),
		Category:  strings.TrimSpace(category),
		CreatedAt: now.UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the sentence's fields.
func (s *Sentence) Validate() error {
	if s.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if s.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if s.Text == "" {
		return NewValidationError("text", "cannot be empty", ErrEmptyContent)
	}
	if len(s.Text) > maxSentenceLen {
		return NewValidationError("text", "must be at most 1000 characters", nil)
	}
	if len(s.Category) > maxCategoryLen {
		return NewValidationError("category", "must be at most 64 characters", nil)
	}
	return nil
}

// Translation is the rendering of a Sentence in one target language. All
// translations of a sentence share the sentence's ProgressGroup.
type Translation struct {
	ID         uuid.UUID `json:"id"`
	SentenceID uuid.UUID `json:"sentence_id"`
	GroupID    uuid.UUID `json:"group_id"`
	Language   string    `json:"language"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTranslation creates a validated translation of sentenceID into language.
func NewTranslation(sentenceID, groupID uuid.UUID, language, text string, now time.Time) (*Translation, error) {
	t := &Translation{
		ID:         uuid.New(),
		SentenceID: sentenceID,
		GroupID:    groupID,
		Language:   NormalizeLanguage(language),
		Text:       strings.TrimSpace(text),
		CreatedAt:  now.UTC(),
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks the translation's fields.
func (t *Translation) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.SentenceID == uuid.Nil {
		return NewValidationError("sentence_id", "cannot be empty", ErrInvalidID)
	}
	if t.GroupID == uuid.Nil {
		return NewValidationError("group_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateLanguage("language", t.Language); err != nil {
		return err
	}
	if t.Text == "" {
		return NewValidationError("text", "cannot be empty", ErrEmptyContent)
	}
	return nil
}

// SentenceWithTranslations bundles a sentence with its group and translations.
type SentenceWithTranslations struct {
	Sentence     *Sentence      `json:"sentence"`
	Group        *ProgressGroup `json:"group"`
	Translations []*Translation `json:"translations"`
}
