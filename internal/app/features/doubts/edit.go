package doubts

import (
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/policy/ownerpolicy"
	doubtstore "github.com/dalemusser/doubtspanel/internal/app/store/doubts"
	"github.com/dalemusser/doubtspanel/internal/app/system/attachments"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/formutil"
	"github.com/dalemusser/doubtspanel/internal/app/system/limits"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeEdit handles GET /doubts/{id}/edit. Only the owner gets the
// current values back.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwned(w, r, msgDetailFailed)
	if !ok {
		return
	}
	acct, _ := auth.CurrentAccount(r)
	uierrors.WriteJSON(w, http.StatusOK, rowFor(acct, d))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /doubts/{id}/edit                                                       |
| A new file replaces the attachment; without one the current URL is kept.     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	d, ok := h.loadOwned(w, r, msgUpdateFailed)
	if !ok {
		return
	}

	if err := formutil.ParsePost(w, r, limits.MaxPostFormSize); err != nil {
		h.ErrLog.Respond(w, r, "parse doubt edit form", err, msgUpdateFailed)
		return
	}
	in := doubtInput{
		Title:       formutil.Trimmed(r, "title"),
		Description: formutil.Trimmed(r, "description"),
	}
	if err := in.check(); err != nil {
		h.ErrLog.Respond(w, r, "doubt edit rejected", err, msgEmptyFields)
		return
	}

	file, closeFile, err := formutil.OptionalFile(r, "file", limits.MaxAttachmentSize)
	defer closeFile()
	if err != nil {
		h.ErrLog.Respond(w, r, "read doubt attachment", err, msgUpdateFailed)
		return
	}

	uctx, ucancel := h.Timeouts.WithUpload(r.Context())
	defer ucancel()
	fileURL, err := attachments.UploadOptional(uctx, h.Uploader, file, d.FileURL)
	if err != nil {
		h.ErrLog.Respond(w, r, "doubt attachment upload failed", err, msgUpdateFailed)
		return
	}

	ctx, cancel := h.Timeouts.WithMedium(r.Context())
	defer cancel()

	f := doubtstore.Fields{Title: in.Title, Description: in.Description, FileURL: fileURL}
	if err := h.Doubts.Update(ctx, d.ID.Hex(), f); err != nil {
		h.ErrLog.Respond(w, r, "update doubt failed", err, msgUpdateFailed)
		return
	}

	h.Log.Info("doubt updated", zap.String("doubt_id", d.ID.Hex()), zap.String("email", acct.Email))

	d.Title, d.Description, d.FileURL = f.Title, f.Description, f.FileURL
	uierrors.WriteJSON(w, http.StatusOK, rowFor(acct, d))
}

// loadOwned fetches the doubt named by the URL and verifies the acting
// account owns it. It writes the error response itself and reports false
// when the caller must stop.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request, fallback string) (models.Doubt, bool) {
	acct, _ := auth.CurrentAccount(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := h.Timeouts.WithShort(r.Context())
	defer cancel()

	d, err := h.Doubts.Get(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load doubt failed", err, fallback)
		return models.Doubt{}, false
	}
	if !ownerpolicy.CanModify(acct, d) {
		h.ErrLog.LogForbidden(w, r, "doubt write by non-owner", msgUnauthorized)
		return models.Doubt{}, false
	}
	return d, true
}
