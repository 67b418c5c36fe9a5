package api

import (
	"log/slog"
	"net/http"

	"github.com/Moktur/N-LanguagesAI/internal/api/shared"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
)

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.catalog.CreateUser(r.Context(), req.Username, req.NativeLanguage)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user created",
		slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// GetUser handles GET /users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.catalog.GetUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// AddLanguage handles POST /users/{userID}/languages. Existing sentences
// are translated into the new language in the background.
func (h *Handler) AddLanguage(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req AddLanguageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lang, err := h.catalog.AddTargetLanguage(r.Context(), userID, req.Language)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, lang)
}

// ListLanguages handles GET /users/{userID}/languages.
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	langs, err := h.catalog.ListTargetLanguages(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if langs == nil {
		langs = []string{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, LanguagesResponse{Languages: langs})
}

// GetStats handles GET /users/{userID}/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	stats, err := h.stats.GetStats(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
