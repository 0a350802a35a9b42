package replies

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	replystore "github.com/dalemusser/doubtspanel/internal/app/store/replies"
	"github.com/dalemusser/doubtspanel/internal/app/system/attachments"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/formutil"
	"github.com/dalemusser/doubtspanel/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleCreate handles POST /doubts/{id}/replies. The author is the acting
// account. The stored reply, with its assigned timestamp, is returned.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)
	doubtID := chi.URLParam(r, "id")

	if err := formutil.ParsePost(w, r, limits.MaxPostFormSize); err != nil {
		h.ErrLog.Respond(w, r, "parse reply form", err, msgPostFailed)
		return
	}
	in := replyInput{Text: formutil.Trimmed(r, "text")}
	if err := in.check(); err != nil {
		h.ErrLog.Respond(w, r, "reply rejected", err, msgEmptyReply)
		return
	}

	gctx, gcancel := h.Timeouts.WithShort(r.Context())
	_, err := h.Doubts.Get(gctx, doubtID)
	gcancel()
	if err != nil {
		h.ErrLog.Respond(w, r, "reply to missing doubt", err, msgPostFailed)
		return
	}

	file, closeFile, err := formutil.OptionalFile(r, "file", limits.MaxAttachmentSize)
	defer closeFile()
	if err != nil {
		h.ErrLog.Respond(w, r, "read reply attachment", err, msgPostFailed)
		return
	}

	uctx, ucancel := h.Timeouts.WithUpload(r.Context())
	defer ucancel()
	fileURL, err := attachments.UploadOptional(uctx, h.Uploader, file, "")
	if err != nil {
		h.ErrLog.Respond(w, r, "reply attachment upload failed", err, msgPostFailed)
		return
	}

	// The write budget starts once the upload has finished.
	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	rp, err := h.Replies.Create(ctx, doubtID, acct.Email, replystore.Fields{Text: in.Text, FileURL: fileURL})
	if err != nil {
		h.ErrLog.Respond(w, r, "create reply failed", err, msgPostFailed)
		return
	}

	h.Log.Info("reply posted",
		zap.String("doubt_id", doubtID),
		zap.String("reply_id", rp.ID.Hex()),
		zap.String("email", acct.Email))

	uierrors.WriteJSON(w, http.StatusCreated, replyRow{Reply: rp, CanModify: true})
}
