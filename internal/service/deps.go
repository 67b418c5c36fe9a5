package service

import (
	"errors"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/store"
)

// Clock returns the current instant.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Stores bundles the stores the services draw on. Each service checks only
// the ones it uses.
type Stores struct {
	Users        store.UserStore
	Sentences    store.SentenceStore
	Translations store.TranslationStore
	Groups       store.ProgressGroupStore
	Progress     store.LearningProgressStore
	ReviewLogs   store.ReviewLogStore
}

func orSystem(clock Clock) Clock {
	if clock == nil {
		return SystemClock
	}
	return clock
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}
