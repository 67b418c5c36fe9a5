package api

import (
	"errors"
	"net/http"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/service"
	"github.com/Moktur/N-LanguagesAI/internal/store"
)

// MapErrorToStatusCode maps service and store errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrPartialSession),
		errors.Is(err, service.ErrPartialSchedule):
		return http.StatusMultiStatus
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrSentenceNotFound):
		return "Sentence not found"
	case errors.Is(err, store.ErrTranslationNotFound):
		return "Translation not found"
	case errors.Is(err, store.ErrGroupNotFound):
		return "Progress group not found"
	case errors.Is(err, store.ErrProgressNotFound):
		return "Learning progress not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, store.ErrLanguageExists):
		return "Target language already added"
	case errors.Is(err, store.ErrTranslationExists):
		return "Translation already exists for this language"
	case errors.Is(err, store.ErrGroupExists):
		return "Sentence already has a progress group"
	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrPartialSession):
		return "Some reviews could not be recorded"
	case errors.Is(err, service.ErrPartialSchedule):
		return "Some items could not be scheduled"

	default:
		return "An unexpected error occurred"
	}
}
