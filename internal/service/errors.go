package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/redact"
	"github.com/Moktur/N-LanguagesAI/internal/store"
)

// Sentinel errors returned by the services. The not-found errors are the
// store's entity sentinels, so errors.Is matches both them and
// store.ErrNotFound.
var (
	ErrUserNotFound        = store.ErrUserNotFound
	ErrSentenceNotFound    = store.ErrSentenceNotFound
	ErrTranslationNotFound = store.ErrTranslationNotFound
	ErrGroupNotFound       = store.ErrGroupNotFound
	ErrProgressNotFound    = store.ErrProgressNotFound

	// ErrPartialSession is returned with a SessionResult when some, but not
	// necessarily all, updates of a review session failed.
	ErrPartialSession = errors.New("review session partially failed")

	// ErrPartialSchedule is returned with a ScheduleResult when some items
	// of a schedule could not be applied.
	ErrPartialSchedule = errors.New("schedule partially applied")
)

// ServiceError wraps an unexpected failure with the operation it happened in.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// isExpected reports whether err is a business outcome that callers handle
// themselves and that is passed through without extra wrapping.
func isExpected(err error) bool {
	return store.IsNotFoundError(err) ||
		store.IsDuplicateError(err) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		errors.Is(err, ErrPartialSession) ||
		errors.Is(err, ErrPartialSchedule) ||
		isValidation(err)
}

// failure passes expected errors through and wraps everything else in a
// ServiceError after logging it.
func failure(log *slog.Logger, svc, op, msg string, err error, attrs ...any) error {
	if isExpected(err) {
		log.Debug(msg, append(attrs, slog.String("error", err.Error()))...)
		return err
	}
	log.Error(msg, append(attrs, slog.String("error", redact.Error(err)))...)
	return NewServiceError(svc, op, msg, err)
}
