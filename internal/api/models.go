package api

import (
	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/google/uuid"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username       string `json:"username" validate:"required,max=100"`
	NativeLanguage string `json:"native_language" validate:"required,max=35"`
}

// AddLanguageRequest is the body of POST /users/{userID}/languages.
type AddLanguageRequest struct {
	Language string `json:"language" validate:"required,max=35"`
}

// LanguagesResponse lists the target languages of a user.
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// CreateSentenceRequest is the body of POST /users/{userID}/sentences.
// Translations maps language tags to texts; missing ones are generated.
type CreateSentenceRequest struct {
	Text         string            `json:"text" validate:"required"`
	Category     string            `json:"category,omitempty" validate:"max=100"`
	Translations map[string]string `json:"translations,omitempty"`
}

// AddTranslationRequest is the body of POST /sentences/{sentenceID}/translations.
// An empty text asks the translator for one.
type AddTranslationRequest struct {
	Language string `json:"language" validate:"required,max=35"`
	Text     string `json:"text,omitempty"`
}

// GroupReviewRequest is the body of POST /groups/{groupID}/review.
type GroupReviewRequest struct {
	GroupScore *float64 `json:"group_score" validate:"required"`
	Success    *bool    `json:"success" validate:"required"`
}

// ItemReviewRequest is the body of POST /translations/{translationID}/review.
type ItemReviewRequest struct {
	Score   *int  `json:"score" validate:"required"`
	Success *bool `json:"success" validate:"required"`
}

// DaysRequest is the body of the postpone and schedule endpoints.
type DaysRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// SessionItemRequest is one translation reviewed within a session.
type SessionItemRequest struct {
	TranslationID uuid.UUID `json:"translation_id" validate:"required"`
	Score         *int      `json:"score" validate:"required"`
	Success       *bool     `json:"success" validate:"required"`
}

// SessionRequest is the body of POST /users/{userID}/sessions.
type SessionRequest struct {
	GroupID    uuid.UUID            `json:"group_id" validate:"required"`
	GroupScore *float64             `json:"group_score" validate:"required"`
	Items      []SessionItemRequest `json:"items" validate:"min=1,dive"`
}

// SessionFailure reports one failed update of a session.
type SessionFailure struct {
	TranslationID *uuid.UUID `json:"translation_id,omitempty"`
	Error         string     `json:"error"`
}

// SessionResponse is returned by the session endpoint. Failures is empty
// unless the status is 207.
type SessionResponse struct {
	Group    *domain.ProgressGroup      `json:"group,omitempty"`
	Items    []*domain.LearningProgress `json:"items"`
	Failures []SessionFailure           `json:"failures"`
}

// ScheduleItemRequest sets the next review date of one translation.
type ScheduleItemRequest struct {
	TranslationID uuid.UUID `json:"translation_id" validate:"required"`
	NextReview    string    `json:"next_review" validate:"required,datetime=2006-01-02"`
}

// ScheduleItemsRequest is the body of POST /users/{userID}/schedule/items.
type ScheduleItemsRequest struct {
	Items []ScheduleItemRequest `json:"items" validate:"min=1,dive"`
}

// ScheduleItemsResponse is returned by the item schedule endpoint. Failures
// is empty unless the status is 207.
type ScheduleItemsResponse struct {
	Items    []*domain.LearningProgress `json:"items"`
	Failures []SessionFailure           `json:"failures"`
}
