// internal/app/features/search/routes.go
package search

import (
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeSearch)
		pr.Post("/select/{id}", h.HandleSelect)
	})
	return r
}
