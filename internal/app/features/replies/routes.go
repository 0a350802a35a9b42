// internal/app/features/replies/routes.go
package replies

import (
	"net/http"

	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the replies of one doubt. Mount it at
// /doubts/{id}/replies so the parent id is available as a URL param.
func Routes(h *Handler, sm *auth.SessionManager, writeGuard func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)

		pr.Group(func(wr chi.Router) {
			wr.Use(writeGuard)
			wr.Post("/", h.HandleCreate)
			wr.Post("/{replyID}/edit", h.HandleEdit)
			wr.Post("/{replyID}/delete", h.HandleDelete)
		})
	})

	return r
}
