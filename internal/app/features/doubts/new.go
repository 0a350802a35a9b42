package doubts

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	doubtstore "github.com/dalemusser/doubtspanel/internal/app/store/doubts"
	"github.com/dalemusser/doubtspanel/internal/app/system/attachments"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/formutil"
	"github.com/dalemusser/doubtspanel/internal/app/system/limits"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /doubts                                                                 |
| Compose flow: validate, upload the optional attachment, then create.         |
| An upload failure aborts before anything is written.                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	if err := formutil.ParsePost(w, r, limits.MaxPostFormSize); err != nil {
		h.ErrLog.Respond(w, r, "parse doubt form", err, msgCreateFailed)
		return
	}
	in := doubtInput{
		Title:       formutil.Trimmed(r, "title"),
		Description: formutil.Trimmed(r, "description"),
	}
	if err := in.check(); err != nil {
		h.ErrLog.Respond(w, r, "doubt rejected", err, msgEmptyFields)
		return
	}

	file, closeFile, err := formutil.OptionalFile(r, "file", limits.MaxAttachmentSize)
	defer closeFile()
	if err != nil {
		h.ErrLog.Respond(w, r, "read doubt attachment", err, msgCreateFailed)
		return
	}

	uctx, ucancel := h.Timeouts.WithUpload(r.Context())
	defer ucancel()
	fileURL, err := attachments.UploadOptional(uctx, h.Uploader, file, "")
	if err != nil {
		h.ErrLog.Respond(w, r, "doubt attachment upload failed", err, msgCreateFailed)
		return
	}

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	// postedBy always comes from the session, never from the form.
	id, err := h.Doubts.Create(ctx, acct.Email, doubtstore.Fields{
		Title:       in.Title,
		Description: in.Description,
		FileURL:     fileURL,
	})
	if err != nil {
		h.ErrLog.Respond(w, r, "create doubt failed", err, msgCreateFailed)
		return
	}

	h.Log.Info("doubt posted",
		zap.String("doubt_id", id.Hex()),
		zap.String("email", acct.Email),
		zap.Bool("attachment", fileURL != ""))

	w.Header().Set("Location", "/doubts/"+id.Hex())
	uierrors.WriteJSON(w, http.StatusCreated, map[string]string{"id": id.Hex()})
}
