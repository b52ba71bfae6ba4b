package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-recipe-backend/internal/config"
)

// DefaultImageKitUploadURL is ImageKit's public upload endpoint.
const DefaultImageKitUploadURL = "https://upload.imagekit.io/api/v1/files/upload"

// ImageKit uploads through ImageKit's REST API using private-key basic auth.
type ImageKit struct {
	PrivateKey string
	UploadURL  string
	HTTP       *http.Client
	Now        func() time.Time
}

// NewImageKit returns an ImageKit client with a 30s HTTP timeout.
func NewImageKit(cfg config.ImageKitConfig) *ImageKit {
	u := cfg.UploadURL
	if u == "" {
		u = DefaultImageKitUploadURL
	}
	return &ImageKit{
		PrivateKey: cfg.PrivateKey,
		UploadURL:  u,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		Now:        time.Now,
	}
}

type imageKitResponse struct {
	FileID  string `json:"fileId"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Upload sends img as multipart/form-data and returns the hosted URL.
func (k *ImageKit) Upload(ctx context.Context, img Image) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fileName := strconv.FormatInt(k.Now().UnixMilli(), 10) + "_" + img.Name
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}
	fields := map[string]string{
		"fileName":          fileName,
		"useUniqueFileName": "true",
	}
	if img.Folder != "" {
		fields["folder"] = "/" + strings.Trim(img.Folder, "/")
	}
	if len(img.Tags) > 0 {
		fields["tags"] = strings.Join(img.Tags, ",")
	}
	for name, v := range fields {
		if err := w.WriteField(name, v); err != nil {
			return "", fmt.Errorf("build upload body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.SetBasicAuth(k.PrivateKey, "")
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := k.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	var out imageKitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: status %d: decode response: %v", ErrUpstream, resp.StatusCode, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, out.Message)
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: response has no url", ErrUpstream)
	}
	return out.URL, nil
}
