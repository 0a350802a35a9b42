// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
)

// Handler serves the signed-in state of the current browser session.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// sessionState is what the front end's identity context holds.
type sessionState struct {
	Loading  bool            `json:"loading"`
	Account  *models.Account `json:"account"`
	Username string          `json:"username"`
}

// ServeSession returns JSON describing who is signed in.
//
// Response format:
//
//	{ "loading": false, "account": {"id":"…","email":"…","displayName":"…"}, "username": "…" }
//
// account is null when nobody is signed in. loading is only true when the
// session has not been restored for this request.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	state := sessionState{Loading: !auth.Restored(r)}
	if acct, ok := auth.CurrentAccount(r); ok {
		state.Account = acct
		state.Username = acct.Username()
	}
	_ = json.NewEncoder(w).Encode(state)
}
