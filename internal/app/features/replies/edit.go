package replies

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/formutil"
	"github.com/dalemusser/doubtspanel/internal/app/system/limits"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleEdit handles POST /doubts/{id}/replies/{replyID}/edit. Only the
// text can change.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	rp, ok := h.loadOwned(w, r, msgUpdateFailed)
	if !ok {
		return
	}

	if err := formutil.ParsePost(w, r, limits.MaxPostFormSize); err != nil {
		h.ErrLog.Respond(w, r, "parse reply edit form", err, msgUpdateFailed)
		return
	}
	in := replyInput{Text: formutil.Trimmed(r, "text")}
	if err := in.check(); err != nil {
		h.ErrLog.Respond(w, r, "reply edit rejected", err, msgEmptyReply)
		return
	}

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Replies.Update(ctx, rp.DoubtID.Hex(), rp.ID.Hex(), in.Text); err != nil {
		h.ErrLog.Respond(w, r, "update reply failed", err, msgUpdateFailed)
		return
	}

	h.Log.Info("reply updated", zap.String("reply_id", rp.ID.Hex()), zap.String("email", acct.Email))

	rp.Text = in.Text
	uierrors.WriteJSON(w, http.StatusOK, replyRow{Reply: rp, CanModify: true})
}

// HandleDelete handles POST /doubts/{id}/replies/{replyID}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	rp, ok := h.loadOwned(w, r, msgDeleteFailed)
	if !ok {
		return
	}

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Replies.Delete(ctx, rp.DoubtID.Hex(), rp.ID.Hex()); err != nil {
		h.ErrLog.Respond(w, r, "delete reply failed", err, msgDeleteFailed)
		return
	}

	h.Log.Info("reply deleted", zap.String("reply_id", rp.ID.Hex()), zap.String("email", acct.Email))
	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"id": rp.ID.Hex()})
}

// loadOwned fetches the reply named by the URL and verifies the acting
// account wrote it.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request, fallback string) (models.Reply, bool) {
	acct, _ := auth.CurrentAccount(r)

	ctx, cancel := h.Timeouts.WithShort(r.Context())
	defer cancel()

	rp, err := h.Replies.Get(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "replyID"))
	if err != nil {
		h.ErrLog.Respond(w, r, "load reply failed", err, fallback)
		return models.Reply{}, false
	}
	if !ownerpolicy.CanModify(acct, rp) {
		h.ErrLog.LogForbidden(w, r, "reply write by non-author", msgUnauthorized)
		return models.Reply{}, false
	}
	return rp, true
}
