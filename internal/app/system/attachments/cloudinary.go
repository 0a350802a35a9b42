package attachments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
)

// DefaultCloudinaryEndpoint is the API base; the cloud name and
// "/upload" are appended.
const DefaultCloudinaryEndpoint = "https://api.cloudinary.com/v1_1"

// Cloudinary uploads through an unsigned upload preset.
type Cloudinary struct {
	Endpoint     string
	CloudName    string
	UploadPreset string
	HTTP         *http.Client
}

// NewCloudinary returns a Cloudinary uploader. An empty endpoint selects
// the public API.
func NewCloudinary(endpoint, cloudName, preset string, client *http.Client) *Cloudinary {
	if endpoint == "" {
		endpoint = DefaultCloudinaryEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Cloudinary{
		Endpoint:     strings.TrimRight(endpoint, "/"),
		CloudName:    cloudName,
		UploadPreset: preset,
		HTTP:         client,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upload posts the file as multipart form data {file, upload_preset,
// cloud_name} and returns secure_url from the response.
func (c *Cloudinary) Upload(ctx context.Context, f File) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return "", apperr.Transport("upload attachment", err)
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return "", apperr.Transport("upload attachment", err)
	}
	_ = mw.WriteField("upload_preset", c.UploadPreset)
	_ = mw.WriteField("cloud_name", c.CloudName)
	if err := mw.Close(); err != nil {
		return "", apperr.Transport("upload attachment", err)
	}

	url := fmt.Sprintf("%s/%s/upload", c.Endpoint, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", apperr.Transport("upload attachment", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", apperr.Transport("upload attachment", err)
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", apperr.Transport("upload attachment", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", apperr.Transport("upload attachment", fmt.Errorf("media host rejected upload: %d %s", resp.StatusCode, msg))
	}
	if out.SecureURL == "" {
		return "", apperr.Transport("upload attachment", fmt.Errorf("media host response has no secure_url"))
	}
	return out.SecureURL, nil
}
