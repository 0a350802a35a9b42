// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Revoker ends the provider session for an access token.
type Revoker interface {
	SignOut(ctx context.Context, token string) error
}

// SessionState is per-session state that must not outlive the sign-in.
type SessionState interface {
	Drop(sessionID string)
}

type Handler struct {
	Log         *zap.Logger
	SessionMgr  *auth.SessionManager
	Revoker     Revoker
	State       SessionState
	Timeouts    timeouts.Timeouts
	FrontendURL string
}

func NewHandler(sessionMgr *auth.SessionManager, revoker Revoker, state SessionState, t timeouts.Timeouts, frontendURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:         logger,
		SessionMgr:  sessionMgr,
		Revoker:     revoker,
		State:       state,
		Timeouts:    t,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// ServeLogout handles GET and POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	email := ""
	if acct, ok := auth.CurrentAccount(r); ok {
		email = acct.Email
	}

	token, sid, err := h.SessionMgr.SignOut(w, r)
	if err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	if h.State != nil && sid != "" {
		h.State.Drop(sid)
	}

	// A failed revoke still leaves this service signed out.
	if h.Revoker != nil {
		ctx, cancel := h.Timeouts.WithShort(r.Context())
		defer cancel()
		if err := h.Revoker.SignOut(ctx, token); err != nil {
			h.Log.Warn("logout: provider revoke failed", zap.Error(err), zap.String("email", email))
		}
	}

	h.Log.Info("user signed out", zap.String("email", email))

	home := h.FrontendURL + "/"

	// HTMX handling: use HX-Redirect to force a client-side navigation home.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", home)
		w.WriteHeader(http.StatusOK)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, home, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"loading": false,
		"account": nil,
	})
}
