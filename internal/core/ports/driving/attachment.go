package driving

import (
	"context"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// AttachmentService produces thumbnails and metadata for stored attachments.
//
// Three outcomes are kept distinct so callers can map them to distinct
// signals: domain.ErrNoHandler (no preview possible), a nil thumbnail with
// a nil error (handler ran but nothing was renderable), and any other
// error (a fault that should be surfaced).
type AttachmentService interface {
	// Get returns the attachment record.
	Get(ctx context.Context, id string) (*domain.Attachment, error)

	// Thumbnail renders the attachment to fit within bound.
	Thumbnail(ctx context.Context, id string, bound domain.Size) ([]byte, error)

	// Metadata extracts the attachment's media properties.
	Metadata(ctx context.Context, id string) (domain.AttachmentMetadata, error)

	// MetadataBatch extracts metadata for several attachments concurrently.
	// Attachments without a handler are omitted from the result.
	MetadataBatch(ctx context.Context, ids []string) (map[string]domain.AttachmentMetadata, error)
}
