// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /auth/session on the supplied router.
// No auth-specific middleware is required because the handler itself
// reports the signed-out state.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/auth/session", h.ServeSession)
}
