package api

import (
	"log/slog"
	"net/http"

	"github.com/Moktur/N-LanguagesAI/internal/api/shared"
	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
)

// CreateSentence handles POST /users/{userID}/sentences.
func (h *Handler) CreateSentence(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req CreateSentenceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.catalog.CreateSentence(r.Context(), userID, req.Text, req.Category, req.Translations)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("sentence created",
		slog.String("sentence_id", created.Sentence.ID.String()),
		slog.Int("translations", len(created.Translations)))
	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// ListSentences handles GET /users/{userID}/sentences. The optional
// category query parameter filters the result.
func (h *Handler) ListSentences(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	sentences, err := h.catalog.ListSentences(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if sentences == nil {
		sentences = []*domain.Sentence{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sentences)
}

// GetSentence handles GET /sentences/{sentenceID}.
func (h *Handler) GetSentence(w http.ResponseWriter, r *http.Request) {
	sentenceID, ok := pathUUID(w, r, "sentenceID")
	if !ok {
		return
	}

	sentence, err := h.catalog.GetSentence(r.Context(), sentenceID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sentence)
}

// DeleteSentence handles DELETE /sentences/{sentenceID}.
func (h *Handler) DeleteSentence(w http.ResponseWriter, r *http.Request) {
	sentenceID, ok := pathUUID(w, r, "sentenceID")
	if !ok {
		return
	}

	if err := h.catalog.DeleteSentence(r.Context(), sentenceID); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTranslation handles POST /sentences/{sentenceID}/translations.
func (h *Handler) AddTranslation(w http.ResponseWriter, r *http.Request) {
	sentenceID, ok := pathUUID(w, r, "sentenceID")
	if !ok {
		return
	}
	var req AddTranslationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tr, err := h.catalog.AddTranslation(r.Context(), sentenceID, req.Language, req.Text)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, tr)
}
