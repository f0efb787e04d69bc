package driving

import (
	"context"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// MessageService enriches messages for external actors.
type MessageService interface {
	// Enrich runs the enrichment chain over msg.
	Enrich(msg domain.Message) domain.EnrichedMessage

	// EnrichText enriches a free-standing text as if it were a message.
	EnrichText(text string) domain.EnrichedMessage

	// Get loads a stored message and enriches it.
	Get(ctx context.Context, id string) (*domain.EnrichedMessage, error)

	// ListConversation loads and enriches up to limit messages of a
	// conversation, oldest first.
	ListConversation(ctx context.Context, conversationID string, limit int) ([]domain.EnrichedMessage, error)
}
