// Package video thumbnails and describes video files using ffmpeg and
// ffprobe.
package video

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/handlers/thumb"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// Ensure Handler implements the interface.
var _ driven.AttachmentHandler = (*Handler)(nil)

// Name is the handler name used in logs.
const Name = "video"

// Handler thumbnails the first frame of a video and reports its duration
// and dimensions.
type Handler struct {
	opts      thumb.Options
	prober    Prober
	extractor FrameExtractor
}

// Option configures a Handler.
type Option func(*Handler)

// WithProber replaces the ffprobe-backed prober.
func WithProber(p Prober) Option {
	return func(h *Handler) { h.prober = p }
}

// WithExtractor replaces the ffmpeg-backed frame extractor.
func WithExtractor(x FrameExtractor) Option {
	return func(h *Handler) { h.extractor = x }
}

// WithFFmpeg points the handler at a specific ffmpeg binary. The ffprobe
// binary is process-wide, see SetFFprobePath.
func WithFFmpeg(binPath string) Option {
	return func(h *Handler) { h.extractor = NewFFmpeg(binPath) }
}

// New creates a video handler. Without options it runs ffmpeg and ffprobe
// from PATH.
func New(opts thumb.Options, options ...Option) *Handler {
	h := &Handler{opts: opts}
	for _, o := range options {
		o(h)
	}
	if h.prober == nil {
		h.prober = NewFFprobe()
	}
	if h.extractor == nil {
		h.extractor = NewFFmpeg("")
	}
	return h
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return Name
}

// SupportedMIMETypes returns the MIME patterns this handler accepts.
func (h *Handler) SupportedMIMETypes() []string {
	return []string{"video/*"}
}

// Thumbnail renders the frame at t=0 as a JPEG fitting bound.
// A missing file yields (nil, nil); a container with no extractable frame
// yields domain.ErrNoFrame.
func (h *Handler) Thumbnail(ctx context.Context, path string, bound domain.Size) ([]byte, error) {
	if !bound.Valid() {
		return nil, fmt.Errorf("thumbnail size %dx%d: %w", bound.Width, bound.Height, domain.ErrInvalidInput)
	}
	if ok, err := exists(path); !ok || err != nil {
		return nil, err
	}

	frame, err := h.extractor.FirstFrame(ctx, path)
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, domain.ErrNoFrame
	}
	return thumb.Render(frame, bound, h.opts)
}

// Metadata reports the container duration and, when a video stream
// exists, its natural dimensions.
func (h *Handler) Metadata(ctx context.Context, path string) (domain.AttachmentMetadata, error) {
	if ok, err := exists(path); !ok || err != nil {
		return domain.AttachmentMetadata{}, err
	}

	p, err := h.prober.Probe(ctx, path)
	if err != nil {
		return domain.AttachmentMetadata{}, err
	}

	var meta domain.AttachmentMetadata
	if p.DurationSeconds > 0 {
		d := p.DurationSeconds
		meta.DurationSeconds = &d
	}
	if p.HasVideo {
		w, ht := p.Width, p.Height
		meta.Width = &w
		meta.Height = &ht
	} else {
		logger.Debug("video: %s has no video stream", path)
	}
	return meta, nil
}

// exists reports whether path is present. A missing file is not an error.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("video: %s does not exist", path)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat video: %w", err)
	}
	return true, nil
}
