package store

import (
	"errors"
	"fmt"
)

// Common store errors. Implementations wrap these so callers can match them
// with errors.Is regardless of the underlying driver.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates the record breaks a schema constraint such
	// as a foreign key or check constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrSerialization indicates the transaction lost a race with a concurrent
	// one (serialization failure, deadlock, database busy). Re-running the
	// whole transaction may succeed.
	ErrSerialization = errors.New("serialization conflict")

	// ErrTransactionFailed indicates a transaction could not begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific not-found errors.
var (
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrSentenceNotFound    = fmt.Errorf("%w: sentence", ErrNotFound)
	ErrTranslationNotFound = fmt.Errorf("%w: translation", ErrNotFound)
	ErrGroupNotFound       = fmt.Errorf("%w: progress group", ErrNotFound)
	ErrProgressNotFound    = fmt.Errorf("%w: learning progress", ErrNotFound)
	ErrTaskNotFound        = fmt.Errorf("%w: task", ErrNotFound)
)

// Entity-specific duplicate errors.
var (
	ErrUsernameExists    = fmt.Errorf("%w: username", ErrDuplicate)
	ErrLanguageExists    = fmt.Errorf("%w: target language", ErrDuplicate)
	ErrGroupExists       = fmt.Errorf("%w: progress group for sentence", ErrDuplicate)
	ErrTranslationExists = fmt.Errorf("%w: translation for language", ErrDuplicate)
	ErrProgressExists    = fmt.Errorf("%w: learning progress for translation", ErrDuplicate)
)

// IsNotFoundError reports whether err is, or wraps, ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is, or wraps, ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsRetryable reports whether err is a serialization conflict.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSerialization)
}

// StoreError describes a failed persistence operation.
type StoreError struct {
	Entity    string // The entity type (e.g. "progress_group")
	Operation string // The operation that failed (e.g. "update")
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
