// Package attachments turns an uploaded file into a publicly fetchable URL.
//
// Two backends exist: Cloudinary (unsigned preset upload) and any
// S3-compatible object store. Both satisfy Uploader. Any failure is
// returned as an apperr transport error and the caller must abort the
// enclosing create or update.
package attachments

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
)

// File is one attachment read from a request.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// MaxFormMemory is how much of a multipart form is buffered in memory
// before spilling to disk.
const MaxFormMemory = 32 << 20

// FormFile extracts the named file field from a multipart request. It
// returns nil when the field is absent. The returned close func must be
// called once the file has been uploaded.
func FormFile(r *http.Request, field string) (*File, func(), error) {
	fh, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return fromHeader(fh, hdr), func() { _ = fh.Close() }, nil
}

func fromHeader(fh multipart.File, hdr *multipart.FileHeader) *File {
	ct := hdr.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &File{
		Name:        hdr.Filename,
		ContentType: ct,
		Size:        hdr.Size,
		Body:        fh,
	}
}

// UploadOptional uploads f when present and returns its URL. With no file
// it returns keep, which is the empty string on create and the existing
// URL on edit.
func UploadOptional(ctx context.Context, u Uploader, f *File, keep string) (string, error) {
	if f == nil {
		return keep, nil
	}
	return u.Upload(ctx, *f)
}
