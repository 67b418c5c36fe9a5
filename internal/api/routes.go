package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the handlers of h on r.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/users", h.CreateUser)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/", h.GetUser)
		r.Get("/languages", h.ListLanguages)
		r.Post("/languages", h.AddLanguage)
		r.Get("/sentences", h.ListSentences)
		r.Post("/sentences", h.CreateSentence)
		r.Get("/due/groups", h.DueGroups)
		r.Get("/due/items", h.DueItems)
		r.Post("/translations/{translationID}/progress", h.EnsureProgress)
		r.Post("/sessions", h.ReviewSession)
		r.Post("/schedule", h.ApplySchedule)
		r.Post("/schedule/items", h.ScheduleItems)
		r.Get("/stats", h.GetStats)
	})

	r.Route("/sentences/{sentenceID}", func(r chi.Router) {
		r.Get("/", h.GetSentence)
		r.Delete("/", h.DeleteSentence)
		r.Post("/translations", h.AddTranslation)
	})

	r.Post("/groups/{groupID}/review", h.ReviewGroup)
	r.Post("/groups/{groupID}/postpone", h.PostponeGroup)
	r.Post("/translations/{translationID}/review", h.ReviewTranslation)
}
