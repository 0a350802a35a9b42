// Package formutil reads doubt and reply submissions.
//
// Submissions arrive either as multipart/form-data (when a file is
// attached) or as application/x-www-form-urlencoded. Both are parsed the
// same way so handlers only deal with trimmed values and an optional file.
//
// Example usage:
//
//	if err := formutil.ParsePost(w, r, limits.MaxPostFormSize); err != nil {
//		h.ErrLog.Respond(w, r, "parse doubt form", err, msgCreateFailed)
//		return
//	}
//	title := formutil.Trimmed(r, "title")
package formutil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/app/system/attachments"
)

// MsgInvalidForm is shown when the body cannot be parsed at all.
const MsgInvalidForm = "The submission could not be read. Please try again."

// MsgTooLarge is shown when the body exceeds the configured limit.
const MsgTooLarge = "The attachment is too large."

// ParsePost bounds the request body to maxBytes and parses it as a form.
// A non-multipart body is accepted; its values are still available.
func ParsePost(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err := r.ParseMultipartForm(attachments.MaxFormMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return apperr.Wrap(apperr.KindValidation, MsgTooLarge, err)
	}
	return apperr.Wrap(apperr.KindValidation, MsgInvalidForm, err)
}

// Trimmed returns the form value for key with surrounding whitespace removed.
func Trimmed(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// OptionalFile returns the attachment under field, or nil when none was
// sent. A file larger than maxSize is rejected. The close func is always
// safe to call.
func OptionalFile(r *http.Request, field string, maxSize int64) (*attachments.File, func(), error) {
	f, closeFn, err := attachments.FormFile(r, field)
	if err != nil {
		return nil, closeFn, apperr.Wrap(apperr.KindValidation, MsgInvalidForm, err)
	}
	if f != nil && maxSize > 0 && f.Size > maxSize {
		closeFn()
		return nil, func() {}, apperr.Validation(MsgTooLarge)
	}
	return f, closeFn, nil
}
