package attachments

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectPutter is the part of *minio.Client used here.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectStoreConfig configures an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string // host[:port], no scheme
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string // key prefix, e.g. "attachments/"
	PublicURL string // base URL objects are served from
}

// ObjectStore uploads to an S3-compatible bucket with public-read objects.
type ObjectStore struct {
	client    objectPutter
	bucket    string
	prefix    string
	publicURL string
}

// NewObjectStore connects a minio client for cfg.
func NewObjectStore(cfg ObjectStoreConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("object store client: %w", err)
	}

	pub := cfg.PublicURL
	if pub == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		pub = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return newObjectStore(client, cfg.Bucket, cfg.Prefix, pub), nil
}

func newObjectStore(client objectPutter, bucket, prefix, publicURL string) *ObjectStore {
	return &ObjectStore{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload stores the file under a random key, keeping its extension when
// that is plain alphanumerics.
func (o *ObjectStore) Upload(ctx context.Context, f File) (string, error) {
	key := uuid.NewString() + safeExt(f.Name)
	if o.prefix != "" {
		key = o.prefix + "/" + key
	}

	size := f.Size
	if size <= 0 {
		size = -1 // unknown; minio streams in parts
	}
	_, err := o.client.PutObject(ctx, o.bucket, key, f.Body, size, minio.PutObjectOptions{
		ContentType: f.ContentType,
	})
	if err != nil {
		return "", apperr.Transport("upload attachment", err)
	}
	return o.publicURL + "/" + key, nil
}

// maxExtLen bounds the extension kept from a client file name.
const maxExtLen = 10

// safeExt returns the lowercased extension of name, or "" when it holds
// anything other than [a-z0-9]; the result is used verbatim in keys and
// URLs.
func safeExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if len(ext) < 2 || len(ext) > maxExtLen+1 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
