package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter builds the control API router.
func NewRouter(deps Deps, authEnabled bool, token string) chi.Router {
	h := NewHandler(deps)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/status", h.Status)
	r.Post("/sync", h.SyncNote)
	r.Post("/sync-all", h.SyncAll)
	r.Get("/history", h.History)
	r.Get("/categories", h.Categories)
	if deps.Broker != nil {
		r.Get("/events", deps.Broker.ServeHTTP)
	}
	return r
}
