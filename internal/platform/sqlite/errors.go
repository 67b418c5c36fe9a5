package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/mattn/go-sqlite3"
)

// MapError maps a go-sqlite3 error to the matching store sentinel, wrapping
// the original error. Errors that already carry a sentinel pass through
// unchanged.
func MapError(err error) error {
	if err == nil || store.IsMapped(err) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return err
	}

	switch sqErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: unique violation: %w", store.ErrDuplicate, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: foreign key violation: %w", store.ErrInvalidEntity, err)
	case sqlite3.ErrConstraintCheck:
		return fmt.Errorf("%w: check constraint violation: %w", store.ErrInvalidEntity, err)
	case sqlite3.ErrConstraintNotNull:
		return fmt.Errorf("%w: not null violation: %w", store.ErrInvalidEntity, err)
	}

	switch sqErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return store.MarkRetryable(err)
	case sqlite3.ErrConstraint:
		return fmt.Errorf("%w: constraint violation: %w", store.ErrInvalidEntity, err)
	}

	return err
}
