package driven

import (
	"context"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// AttachmentHandler renders thumbnails and extracts metadata for one
// family of MIME types (e.g., images, videos).
// Handlers hold no mutable state and may be invoked concurrently.
type AttachmentHandler interface {
	// Name returns the handler name for logging.
	Name() string

	// SupportedMIMETypes returns the MIME patterns this handler accepts.
	// A pattern is either an exact type ("image/png") or a family
	// wildcard ("image/*").
	SupportedMIMETypes() []string

	// Thumbnail renders the file at path to fit within bound.
	// Returns (nil, nil) when the file is present but nothing renderable
	// could be produced (corrupt or undecodable). Returns an error only
	// for unexpected I/O or decoder faults.
	Thumbnail(ctx context.Context, path string, bound domain.Size) ([]byte, error)

	// Metadata extracts media properties of the file at path.
	// Fields that do not apply are left unset.
	Metadata(ctx context.Context, path string) (domain.AttachmentMetadata, error)
}

// HandlerRegistry dispatches a MIME type to the first matching handler.
type HandlerRegistry interface {
	// Register appends a handler. Earlier registrations are tried first.
	Register(h AttachmentHandler)

	// Lookup returns the first registered handler matching mimeType.
	Lookup(mimeType string) (AttachmentHandler, bool)

	// All returns the registered handlers in registration order.
	All() []AttachmentHandler
}
