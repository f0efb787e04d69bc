package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"

	"gopkg.in/vansante/go-ffprobe.v2"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// Probe is what the handler needs to know about a media container.
type Probe struct {
	// DurationSeconds is the container duration; zero when unknown.
	DurationSeconds float64

	// HasVideo is false for containers without a video stream.
	HasVideo bool

	// Width and Height are the natural dimensions of the first video
	// stream, before any rotation is applied.
	Width  int
	Height int
}

// Prober reads container information.
type Prober interface {
	Probe(ctx context.Context, path string) (*Probe, error)
}

// FrameExtractor decodes a single frame at the start of a video, with
// orientation metadata already applied.
type FrameExtractor interface {
	FirstFrame(ctx context.Context, path string) (image.Image, error)
}

// FFprobe is a Prober backed by the ffprobe binary.
type FFprobe struct{}

// NewFFprobe returns a Prober that runs the binary chosen with
// SetFFprobePath, or "ffprobe" from PATH.
func NewFFprobe() *FFprobe {
	return &FFprobe{}
}

// SetFFprobePath selects the ffprobe binary for every FFprobe in the
// process. The setting is global to go-ffprobe, so call it once at startup
// before any probe runs. An empty binPath keeps the current binary.
func SetFFprobePath(binPath string) {
	if binPath != "" {
		ffprobe.SetFFProbeBinPath(binPath)
	}
}

// Probe runs ffprobe on path.
func (p *FFprobe) Probe(ctx context.Context, path string) (*Probe, error) {
	data, err := ffprobe.ProbeURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	out := &Probe{}
	if data.Format != nil {
		out.DurationSeconds = data.Format.DurationSeconds
	}
	if vs := data.FirstVideoStream(); vs != nil {
		out.HasVideo = true
		out.Width = vs.Width
		out.Height = vs.Height
	}
	return out, nil
}

// FFmpeg is a FrameExtractor backed by the ffmpeg binary. ffmpeg applies
// the container's rotation to the decoded frame by default.
type FFmpeg struct {
	bin string
}

// NewFFmpeg returns a FrameExtractor that runs the ffmpeg binary at binPath.
// An empty binPath uses "ffmpeg" from PATH.
func NewFFmpeg(binPath string) *FFmpeg {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &FFmpeg{bin: binPath}
}

// FirstFrame extracts the frame at t=0 as a PNG over a pipe and decodes it.
// Returns domain.ErrNoFrame when ffmpeg produced no image.
func (x *FFmpeg) FirstFrame(ctx context.Context, path string) (image.Image, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, x.bin,
		"-v", "error",
		"-ss", "0",
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// ffmpeg ran but could not decode a frame.
			return nil, fmt.Errorf("%w: %s", domain.ErrNoFrame, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("run ffmpeg: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, domain.ErrNoFrame
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame: %v", domain.ErrNoFrame, err)
	}
	return img, nil
}
