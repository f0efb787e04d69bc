// Package image thumbnails and describes still images.
package image

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/handlers/thumb"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// Ensure Handler implements the interface.
var _ driven.AttachmentHandler = (*Handler)(nil)

// Name is the handler name used in logs.
const Name = "image"

// MaxPixels caps the declared width*height of an image Thumbnail will
// decode. Larger images are treated as not renderable.
const MaxPixels = 50_000_000

// Handler decodes images with the registered Go image decoders (JPEG, PNG,
// GIF, BMP, TIFF, WebP).
type Handler struct {
	opts thumb.Options
}

// New creates an image handler.
func New(opts thumb.Options) *Handler {
	return &Handler{opts: opts}
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return Name
}

// SupportedMIMETypes returns the MIME patterns this handler accepts.
func (h *Handler) SupportedMIMETypes() []string {
	return []string{"image/*"}
}

// Thumbnail decodes the image at path and renders it as a JPEG fitting
// bound. A missing, undecodable or oversized file yields (nil, nil).
func (h *Handler) Thumbnail(ctx context.Context, path string, bound domain.Size) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := open(path)
	if err != nil || f == nil {
		return nil, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		logger.Debug("image: cannot read header of %s: %v", path, err)
		return nil, nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		logger.Debug("image: %s declares %dx%d, over the %d pixel limit", path, cfg.Width, cfg.Height, MaxPixels)
		return nil, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind image: %w", err)
	}

	img, format, err := image.Decode(f)
	if err != nil {
		logger.Debug("image: cannot decode %s: %v", path, err)
		return nil, nil
	}
	logger.Debug("image: decoded %s (%s %dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return thumb.Render(img, bound, h.opts)
}

// Metadata returns the pixel dimensions of the image at path. Duration and
// thumbnail path are never set.
func (h *Handler) Metadata(ctx context.Context, path string) (domain.AttachmentMetadata, error) {
	if err := ctx.Err(); err != nil {
		return domain.AttachmentMetadata{}, err
	}

	f, err := open(path)
	if err != nil || f == nil {
		return domain.AttachmentMetadata{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		logger.Debug("image: cannot read header of %s: %v", path, err)
		return domain.AttachmentMetadata{}, nil
	}

	w, ht := cfg.Width, cfg.Height
	return domain.AttachmentMetadata{Width: &w, Height: &ht}, nil
}

// open returns (nil, nil) for a missing file, which callers treat as
// nothing renderable, and an error for any other failure.
func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("image: %s does not exist", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}
