package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-recipe-backend/internal/imagehost"
)

// Upload defaults.
const (
	DefaultMaxFileSize = 5 << 20
	RecipeImageFolder  = "recipes"
)

// DefaultAllowedTypes are accepted when no list is configured.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// ImageUploader is the media host contract.
type ImageUploader interface {
	Upload(ctx context.Context, img imagehost.Image) (string, error)
}

// UploadService validates user images and forwards them to the image host.
// The MIME type is sniffed from the bytes; the client's Content-Type is not
// trusted.
type UploadService struct {
	Uploader     ImageUploader
	AllowedTypes []string
	MaxFileSize  int64
}

// NewUploadService applies the defaults for empty settings. A nil uploader
// makes every upload fail with ErrUploadUnavailable.
func NewUploadService(u ImageUploader, allowed []string, maxSize int64) *UploadService {
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &UploadService{Uploader: u, AllowedTypes: allowed, MaxFileSize: maxSize}
}

// UploadRecipeImage reads at most MaxFileSize bytes from r, checks the type
// and stores the image in the recipes folder. size is the client-declared
// length; a negative value means unknown.
func (s *UploadService) UploadRecipeImage(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	ctx, span := otel.Tracer("services/UploadService").Start(ctx, "UploadRecipeImage",
		trace.WithAttributes(attribute.Int64("file.size", size)))
	defer span.End()

	if s.Uploader == nil {
		return "", ErrUploadUnavailable
	}
	if r == nil || size == 0 {
		return "", ErrEmptyFile
	}
	limit := s.maxSize()
	if size > limit {
		return "", fileTooLarge(limit)
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return "", fileTooLarge(limit)
	}

	mt := mimetype.Detect(data)
	if !s.allowed(mt) {
		return "", fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedType, mt.String(), strings.Join(s.AllowedTypes, ", "))
	}
	span.SetAttributes(attribute.String("file.mime", mt.String()))

	url, err := s.Uploader.Upload(ctx, imagehost.Image{
		Name:        filename,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
		Folder:      RecipeImageFolder,
		Tags:        []string{"recipe", "food"},
		Data:        data,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("mime", mt.String()).Int("bytes", len(data)).Msg("image uploaded")
	return url, nil
}

func (s *UploadService) maxSize() int64 {
	if s.MaxFileSize > 0 {
		return s.MaxFileSize
	}
	return DefaultMaxFileSize
}

func (s *UploadService) allowed(mt *mimetype.MIME) bool {
	types := s.AllowedTypes
	if len(types) == 0 {
		types = DefaultAllowedTypes
	}
	for _, t := range types {
		if mt.Is(strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

func fileTooLarge(limit int64) error {
	return fmt.Errorf("%w: limit is %.1fMB", ErrFileTooLarge, float64(limit)/(1<<20))
}
