package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/api/shared"
	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/service"
)

// DueGroups handles GET /users/{userID}/due/groups.
func (h *Handler) DueGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	asOf, err := parseAsOf(r, h.now())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	groups, err := h.due.DueGroups(r.Context(), userID, asOf)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if groups == nil {
		groups = []*domain.ProgressGroup{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, groups)
}

// DueItems handles GET /users/{userID}/due/items.
func (h *Handler) DueItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	asOf, err := parseAsOf(r, h.now())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	items, err := h.due.DueItems(r.Context(), userID, asOf, limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*domain.DueItem{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// ReviewGroup handles POST /groups/{groupID}/review.
func (h *Handler) ReviewGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathUUID(w, r, "groupID")
	if !ok {
		return
	}
	var req GroupReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groups.UpdateGroup(r.Context(), groupID, *req.GroupScore, *req.Success)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, group)
}

// PostponeGroup handles POST /groups/{groupID}/postpone.
func (h *Handler) PostponeGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathUUID(w, r, "groupID")
	if !ok {
		return
	}
	var req DaysRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groups.PostponeGroup(r.Context(), groupID, req.Days)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, group)
}

// ApplySchedule handles POST /users/{userID}/schedule. Every group due
// today is moved days into the future.
func (h *Handler) ApplySchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req DaysRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	groups, err := h.groups.ApplySchedule(r.Context(), userID, req.Days)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if groups == nil {
		groups = []*domain.ProgressGroup{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, groups)
}

// ScheduleItems handles POST /users/{userID}/schedule/items. Each entry sets
// the next review date of one of the user's translations; entries that fail
// are listed with a 207.
func (h *Handler) ScheduleItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req ScheduleItemsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	schedule := make([]service.ItemSchedule, len(req.Items))
	for i, it := range req.Items {
		// The validator has checked the layout.
		next, _ := time.ParseInLocation(dateLayout, it.NextReview, time.UTC)
		schedule[i] = service.ItemSchedule{TranslationID: it.TranslationID, NextReview: next}
	}

	result, err := h.progress.ScheduleItems(r.Context(), userID, schedule)
	switch {
	case err == nil:
		shared.RespondWithJSON(w, r, http.StatusOK, scheduleResponse(result))
	case errors.Is(err, service.ErrPartialSchedule) && result != nil:
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("schedule partially applied",
			slog.String("user_id", userID.String()),
			slog.Int("failures", len(result.Failures)))
		shared.RespondWithJSON(w, r, http.StatusMultiStatus, scheduleResponse(result))
	default:
		respondWithServiceError(w, r, err)
	}
}

// EnsureProgress handles POST /users/{userID}/translations/{translationID}/progress.
func (h *Handler) EnsureProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	translationID, ok := pathUUID(w, r, "translationID")
	if !ok {
		return
	}

	progress, err := h.progress.EnsureProgress(r.Context(), userID, translationID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// ReviewTranslation handles POST /translations/{translationID}/review.
func (h *Handler) ReviewTranslation(w http.ResponseWriter, r *http.Request) {
	translationID, ok := pathUUID(w, r, "translationID")
	if !ok {
		return
	}
	var req ItemReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	progress, err := h.progress.RecordReview(r.Context(), translationID, *req.Score, *req.Success)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// ReviewSession handles POST /users/{userID}/sessions. When some updates
// fail the response is 207 and lists them next to the applied ones.
func (h *Handler) ReviewSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req SessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	items := make([]service.ItemReview, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.ItemReview{
			TranslationID: it.TranslationID,
			Score:         *it.Score,
			Success:       *it.Success,
		}
	}

	result, err := h.sessions.ReviewSentence(r.Context(), userID, req.GroupID, *req.GroupScore, items)
	switch {
	case err == nil:
		shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse(result))
	case errors.Is(err, service.ErrPartialSession) && result != nil:
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("session partially applied",
			slog.String("group_id", req.GroupID.String()),
			slog.Int("failures", len(result.Failures)),
			slog.Bool("group_failed", result.GroupErr != nil))
		shared.RespondWithJSON(w, r, http.StatusMultiStatus, sessionResponse(result))
	default:
		respondWithServiceError(w, r, err)
	}
}

func sessionResponse(result *service.SessionResult) SessionResponse {
	resp := SessionResponse{
		Group:    result.Group,
		Items:    result.Items,
		Failures: []SessionFailure{},
	}
	if resp.Items == nil {
		resp.Items = []*domain.LearningProgress{}
	}
	if result.GroupErr != nil {
		resp.Failures = append(resp.Failures, SessionFailure{Error: GetSafeErrorMessage(result.GroupErr)})
	}
	resp.Failures = append(resp.Failures, itemFailures(result.Failures)...)
	return resp
}

func scheduleResponse(result *service.ScheduleResult) ScheduleItemsResponse {
	resp := ScheduleItemsResponse{Items: result.Items, Failures: itemFailures(result.Failures)}
	if resp.Items == nil {
		resp.Items = []*domain.LearningProgress{}
	}
	return resp
}

func itemFailures(failures []service.ItemFailure) []SessionFailure {
	out := make([]SessionFailure, 0, len(failures))
	for _, f := range failures {
		id := f.TranslationID
		out = append(out, SessionFailure{TranslationID: &id, Error: GetSafeErrorMessage(f.Err)})
	}
	return out
}
