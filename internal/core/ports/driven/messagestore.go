package driven

import (
	"context"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// MessageStore provides persistence for stored chat messages.
type MessageStore interface {
	// SaveMessage stores or updates a message.
	SaveMessage(ctx context.Context, msg *domain.Message) error

	// GetMessage retrieves a message by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetMessage(ctx context.Context, id string) (*domain.Message, error)

	// ListConversation returns up to limit messages of a conversation,
	// oldest first. A limit <= 0 returns every message.
	ListConversation(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)

	// DeleteMessage removes a message and its attachments.
	DeleteMessage(ctx context.Context, id string) error
}

// AttachmentStore provides persistence for attachment records.
// Only the record is stored; the file itself lives on local storage.
type AttachmentStore interface {
	// SaveAttachment stores or updates an attachment record.
	SaveAttachment(ctx context.Context, att *domain.Attachment) error

	// GetAttachment retrieves an attachment by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetAttachment(ctx context.Context, id string) (*domain.Attachment, error)

	// ListByMessage returns the attachments of a message.
	ListByMessage(ctx context.Context, messageID string) ([]domain.Attachment, error)
}
