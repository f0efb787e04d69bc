package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/core/ports/driving"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// Ensure AttachmentService implements the interface.
var _ driving.AttachmentService = (*AttachmentService)(nil)

// DefaultMaxWorkers bounds concurrent handler calls when no limit is given.
const DefaultMaxWorkers = 4

// AttachmentOptions tunes how handlers are invoked.
type AttachmentOptions struct {
	// MaxWorkers bounds concurrent handler calls. Zero means DefaultMaxWorkers.
	MaxWorkers int

	// Timeout bounds a single handler call. A call that times out is
	// reported as producing no data. Zero disables the timeout.
	Timeout time.Duration
}

// AttachmentService dispatches stored attachments to handlers.
type AttachmentService struct {
	registry driven.HandlerRegistry
	store    driven.AttachmentStore
	sem      *semaphore.Weighted
	timeout  time.Duration
}

// NewAttachmentService creates a new attachment service.
func NewAttachmentService(registry driven.HandlerRegistry, store driven.AttachmentStore, opts AttachmentOptions) *AttachmentService {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}
	return &AttachmentService{
		registry: registry,
		store:    store,
		sem:      semaphore.NewWeighted(int64(workers)),
		timeout:  opts.Timeout,
	}
}

// Get returns the attachment record.
func (s *AttachmentService) Get(ctx context.Context, id string) (*domain.Attachment, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	att, err := s.store.GetAttachment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attachment %s: %w", id, err)
	}
	return att, nil
}

// Thumbnail renders the attachment as a JPEG fitting bound.
// Returns (nil, nil) when the handler found nothing renderable or timed out.
func (s *AttachmentService) Thumbnail(ctx context.Context, id string, bound domain.Size) ([]byte, error) {
	if !bound.Valid() {
		return nil, fmt.Errorf("thumbnail size %dx%d: %w", bound.Width, bound.Height, domain.ErrInvalidInput)
	}
	att, h, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = s.invoke(ctx, "thumbnail", att, h, func(ctx context.Context) error {
		var herr error
		data, herr = h.Thumbnail(ctx, att.Path, bound)
		return herr
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Metadata extracts the attachment's media properties.
// A handler timeout yields empty metadata.
func (s *AttachmentService) Metadata(ctx context.Context, id string) (domain.AttachmentMetadata, error) {
	att, h, err := s.resolve(ctx, id)
	if err != nil {
		return domain.AttachmentMetadata{}, err
	}

	var meta domain.AttachmentMetadata
	err = s.invoke(ctx, "metadata", att, h, func(ctx context.Context) error {
		var herr error
		meta, herr = h.Metadata(ctx, att.Path)
		return herr
	})
	if err != nil {
		return domain.AttachmentMetadata{}, err
	}
	return meta, nil
}

// MetadataBatch extracts metadata for several attachments concurrently.
// Attachments with no handler are omitted; any other failure aborts the
// batch.
func (s *AttachmentService) MetadataBatch(ctx context.Context, ids []string) (map[string]domain.AttachmentMetadata, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]domain.AttachmentMetadata, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			meta, err := s.Metadata(gctx, id)
			if errors.Is(err, domain.ErrNoHandler) {
				logger.Debug("metadata batch: skipping %s: %v", id, err)
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = meta
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolve loads the attachment and picks its handler.
func (s *AttachmentService) resolve(ctx context.Context, id string) (*domain.Attachment, driven.AttachmentHandler, error) {
	att, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	mimeType := ContentType(att)
	if mimeType == "" {
		return nil, nil, fmt.Errorf("attachment %s: %w: %w", id, domain.ErrNoHandler, domain.ErrMissingMIMEType)
	}

	h, ok := s.registry.Lookup(mimeType)
	if !ok {
		return nil, nil, fmt.Errorf("attachment %s (%s): %w", id, mimeType, domain.ErrNoHandler)
	}
	return att, h, nil
}

// invoke runs fn under the worker bound and per-call timeout.
// A call that exceeds the timeout is logged and treated as producing no data.
func (s *AttachmentService) invoke(
	ctx context.Context,
	op string,
	att *domain.Attachment,
	h driven.AttachmentHandler,
	fn func(ctx context.Context) error,
) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := logger.Timed("%s %s via %s", op, att.ID, h.Name())
	err := fn(callCtx)
	done()

	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		logger.Warn("%s %s via %s timed out after %s", op, att.ID, h.Name(), s.timeout)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s %s via %s: %w", op, att.ID, h.Name(), err)
	}
	return nil
}

// ContentType returns the attachment's declared MIME type, falling back to
// the type registered for its file extension.
func ContentType(att *domain.Attachment) string {
	if mt := att.ContentType(); mt != "" {
		return mt
	}
	return domain.NormaliseMIMEType(mime.TypeByExtension(filepath.Ext(att.Path)))
}
