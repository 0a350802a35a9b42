package replies

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /doubts/{id}/replies, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	rs, err := h.Replies.ListByDoubt(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Respond(w, r, "list replies failed", err, msgLoadFailed)
		return
	}
	rows := make([]replyRow, 0, len(rs))
	for _, rp := range rs {
		rows = append(rows, replyRow{Reply: rp, CanModify: ownerpolicy.CanModify(acct, rp)})
	}
	uierrors.WriteJSON(w, http.StatusOK, rows)
}
