// Package thumb scales decoded images to a bounding box and encodes them
// as JPEG. It is shared by the image and video handlers.
package thumb

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/nfnt/resize"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// DefaultQuality is the JPEG quality used for thumbnails.
const DefaultQuality = 70

// Options controls thumbnail rendering.
type Options struct {
	// Quality is the JPEG quality, 1-100. Zero means DefaultQuality.
	Quality int

	// AllowUpscale lets images smaller than the bound be enlarged.
	AllowUpscale bool
}

func (o Options) quality() int {
	if o.Quality <= 0 || o.Quality > 100 {
		return DefaultQuality
	}
	return o.Quality
}

// ScaleFactor returns the uniform factor that fits a width x height image
// inside bound while preserving aspect ratio. Unless allowUpscale is set the
// factor is clamped to 1.
func ScaleFactor(width, height int, bound domain.Size, allowUpscale bool) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	f := math.Min(float64(bound.Width)/float64(width), float64(bound.Height)/float64(height))
	if !allowUpscale && f > 1 {
		f = 1
	}
	return f
}

// Fit scales img to fit within bound.
func Fit(img image.Image, bound domain.Size, allowUpscale bool) image.Image {
	b := img.Bounds()
	f := ScaleFactor(b.Dx(), b.Dy(), bound, allowUpscale)
	if f == 1 || f == 0 {
		return img
	}
	w := uint(math.Max(1, math.Round(float64(b.Dx())*f)))
	h := uint(math.Max(1, math.Round(float64(b.Dy())*f)))
	return resize.Resize(w, h, img, resize.Lanczos3)
}

// EncodeJPEG encodes img as JPEG, flattening any transparency onto white.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	b := img.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, b, img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Render fits img within bound and encodes the result as JPEG.
func Render(img image.Image, bound domain.Size, opts Options) ([]byte, error) {
	if !bound.Valid() {
		return nil, fmt.Errorf("thumbnail size %dx%d: %w", bound.Width, bound.Height, domain.ErrInvalidInput)
	}
	return EncodeJPEG(Fit(img, bound, opts.AllowUpscale), opts.quality())
}
