// Package imagehost uploads recipe images to a third-party media host and
// returns the public URL. Two backends exist: ImageKit (REST upload API) and
// any S3-compatible bucket. The provider is picked by IMAGE_HOST.
package imagehost

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbourn/go-recipe-backend/internal/config"
)

// ErrUpstream wraps failures reported by the remote host.
var ErrUpstream = errors.New("image host error")

// Image is a validated file ready to be stored.
type Image struct {
	Name        string // original client file name
	ContentType string // sniffed MIME type
	Extension   string // e.g. ".png"
	Folder      string // logical folder, e.g. "recipes"
	Tags        []string
	Data        []byte
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// New builds the uploader selected by cfg.Provider. It returns (nil, nil)
// for ImageHostNone so callers can answer "unavailable".
func New(ctx context.Context, cfg config.ImageHostConfig) (Uploader, error) {
	switch cfg.Provider {
	case "", config.ImageHostNone:
		return nil, nil
	case config.ImageHostImageKit:
		return NewImageKit(cfg.ImageKit), nil
	case config.ImageHostS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown image host %q", cfg.Provider)
	}
}
