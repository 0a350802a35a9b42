package doubts

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// ServeDetail handles GET /doubts/{id}: the doubt and its replies, newest
// reply first.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	d, err := h.Doubts.Get(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load doubt failed", err, msgDetailFailed)
		return
	}
	rs, err := h.Replies.ListByDoubt(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load replies failed", err, msgDetailFailed)
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, detailView{
		Doubt:   rowFor(acct, d),
		Replies: replyRows(acct, rs),
	})
}
