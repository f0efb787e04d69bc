package handlers

import (
	imagehandler "github.com/custodia-labs/threadlight/internal/handlers/image"
	"github.com/custodia-labs/threadlight/internal/handlers/thumb"
	"github.com/custodia-labs/threadlight/internal/handlers/video"
)

// Options configures the built-in handlers.
type Options struct {
	Thumb thumb.Options

	// FFmpegPath overrides the ffmpeg found on PATH. The ffprobe binary
	// is set once per process with video.SetFFprobePath.
	FFmpegPath string
}

// RegisterDefaults registers the built-in image and video handlers, in
// that order.
func RegisterDefaults(r *Registry, opts Options) {
	r.Register(imagehandler.New(opts.Thumb))
	r.Register(video.New(opts.Thumb, video.WithFFmpeg(opts.FFmpegPath)))
}

// NewDefaultRegistry creates a registry with the built-in handlers.
func NewDefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	RegisterDefaults(r, opts)
	return r
}
