package doubts

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"go.uber.org/zap"
)

// HandleDelete handles POST /doubts/{id}/delete. The doubt is removed
// first; its replies are then deleted in the same request. A failed reply
// cleanup is logged and leaves orphans, which readers tolerate.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	d, ok := h.loadOwned(w, r, msgDeleteFailed)
	if !ok {
		return
	}
	id := d.ID.Hex()

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Doubts.Delete(ctx, id); err != nil {
		h.ErrLog.Respond(w, r, "delete doubt failed", err, msgDeleteFailed)
		return
	}

	n, err := h.Replies.DeleteByDoubt(ctx, id)
	if err != nil {
		h.Log.Warn("reply cleanup after doubt delete failed",
			zap.String("doubt_id", id), zap.Error(err))
	}

	h.Log.Info("doubt deleted",
		zap.String("doubt_id", id),
		zap.String("email", acct.Email),
		zap.Int64("replies_deleted", n))

	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "repliesDeleted": n})
}
