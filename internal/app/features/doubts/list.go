package doubts

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"go.uber.org/zap"
)

// ServeList handles GET /doubts: every doubt, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	ds, err := h.Doubts.ListAll(ctx)
	if err != nil {
		h.ErrLog.Respond(w, r, "list doubts failed", err, msgLoadFailed)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, doubtRows(acct, ds))
}

// ServeMine handles GET /doubts/mine: the acting account's doubts.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	ds, err := h.Doubts.ListByOwner(ctx, acct.Email)
	if err != nil {
		h.ErrLog.Respond(w, r, "list own doubts failed", err, msgLoadFailed)
		return
	}
	h.Log.Debug("listed own doubts", zap.String("email", acct.Email), zap.Int("count", len(ds)))
	uierrors.WriteJSON(w, http.StatusOK, doubtRows(acct, ds))
}
