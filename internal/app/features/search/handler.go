// internal/app/features/search/handler.go
package search

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	searchidx "github.com/dalemusser/doubtspanel/internal/app/system/search"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgSearchFailed = "Search failed. Please try again."

	// StaleHeader marks a 204 answered for a superseded keystroke.
	StaleHeader = "X-Search-Stale"
)

// Dropdowns hands out the search dropdown of a session.
type Dropdowns interface {
	Get(sessionID string) *searchidx.Dropdown
}

type Handler struct {
	Dropdowns Dropdowns
	ErrLog    *uierrors.ErrorLogger
	Timeouts  timeouts.Timeouts
	Log       *zap.Logger
}

func NewHandler(dd Dropdowns, errLog *uierrors.ErrorLogger, t timeouts.Timeouts, logger *zap.Logger) *Handler {
	return &Handler{Dropdowns: dd, ErrLog: errLog, Timeouts: t, Log: logger}
}

// ServeSearch handles GET /search?q=. Each call is one keystroke. The
// response arrives after the debounce; a keystroke overtaken by a newer
// one answers 204 with StaleHeader set and must be ignored by the client.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	dd := h.Dropdowns.Get(auth.SessionID(r))

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	res, err := dd.Type(ctx, query.Get(r, "q"))
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			// client went away; nothing to answer
			return
		}
		h.ErrLog.Respond(w, r, "search failed", err, msgSearchFailed)
		return
	}
	if res.Stale {
		w.Header().Set(StaleHeader, "1")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res.State)
}

// selection is where the client navigates after picking an entry.
type selection struct {
	Navigate string          `json:"navigate"`
	State    searchidx.State `json:"state"`
}

// HandleSelect handles POST /search/select/{id}: the query is cleared and
// the dropdown closed.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st := h.Dropdowns.Get(auth.SessionID(r)).Select()
	uierrors.WriteJSON(w, http.StatusOK, selection{Navigate: "/doubts/" + id, State: st})
}
