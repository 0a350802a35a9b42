package attachments

import "context"

// Observer records the outcome of an upload.
type Observer interface {
	ObserveUpload(backend string, err error)
}

// Instrumented reports every upload made through an Uploader.
type Instrumented struct {
	Backend string
	Next    Uploader
	Obs     Observer
}

func (i Instrumented) Upload(ctx context.Context, f File) (string, error) {
	url, err := i.Next.Upload(ctx, f)
	if i.Obs != nil {
		i.Obs.ObserveUpload(i.Backend, err)
	}
	return url, err
}
