package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxUsernameLen = 64

// User is a learner. Sentences are written in the native language and
// translated into each of the user's target languages.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	NativeLanguage string    `json:"native_language"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a validated user with a fresh ID.
func NewUser(username, nativeLanguage string, now time.Time) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(username),
		NativeLanguage: NormalizeLanguage(nativeLanguage),
		CreatedAt:      now.UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user's fields.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if u.Username == "" {
		return NewValidationError("username", "cannot be empty", ErrEmptyContent)
	}
	if len(u.Username) > maxUsernameLen {
		return NewValidationError("username", "must be at most 64 characters", nil)
	}
	return ValidateLanguage("native_language", u.NativeLanguage)
}

// TargetLanguage is a language a user is learning.
type TargetLanguage struct {
	UserID    uuid.UUID `json:"user_id"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTargetLanguage validates language against the user's native language.
func NewTargetLanguage(user *User, language string, now time.Time) (*TargetLanguage, error) {
	tl := &TargetLanguage{
		UserID:    user.ID,
		Language:  NormalizeLanguage(language),
		CreatedAt: now.UTC(),
	}

	if err := ValidateLanguage("language", tl.Language); err != nil {
		return nil, err
	}
	if tl.Language == user.NativeLanguage {
		return nil, NewValidationError("language", "must differ from the native language", nil)
	}

	return tl, nil
}
