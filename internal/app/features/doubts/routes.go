// internal/app/features/doubts/routes.go
package doubts

import (
	"net/http"

	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the doubt board under /doubts. writeGuard wraps every
// mutating route; it rejects a second concurrent submission from the
// same account.
func Routes(h *Handler, sm *auth.SessionManager, writeGuard func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/mine", h.ServeMine)
		pr.Get("/{id}", h.ServeDetail)
		pr.Get("/{id}/edit", h.ServeEdit)

		pr.Group(func(wr chi.Router) {
			wr.Use(writeGuard)
			wr.Post("/", h.HandleCreate)
			wr.Post("/{id}/edit", h.HandleEdit)
			wr.Post("/{id}/delete", h.HandleDelete)
		})
	})

	return r
}
