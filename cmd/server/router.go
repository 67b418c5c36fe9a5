package main

import (
	"net/http"

	"github.com/Moktur/N-LanguagesAI/internal/api"
	apiMiddleware "github.com/Moktur/N-LanguagesAI/internal/api/middleware"
	"github.com/Moktur/N-LanguagesAI/internal/redact"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates the router with the standard middleware stack, the
// API under /api and the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	handler := api.NewHandler(api.Services{
		Catalog:  app.catalog,
		Groups:   app.groups,
		Progress: app.tracker,
		Due:      app.due,
		Stats:    app.stats,
		Sessions: app.sessions,
	}, app.clock, app.logger)

	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, handler)
	})

	r.Get("/health", app.health)

	return r
}

// health reports whether the database is reachable.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		app.logger.Error("health check failed", "error", redact.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", "error", err)
	}
}
