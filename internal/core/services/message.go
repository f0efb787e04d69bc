package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/core/ports/driving"
)

// Ensure MessageService implements the interface.
var _ driving.MessageService = (*MessageService)(nil)

// MessageService enriches stored and ad-hoc messages.
// Enrichment is recomputed on every call and never persisted.
type MessageService struct {
	chain driven.EnrichmentChain
	store driven.MessageStore
	now   func() time.Time
}

// NewMessageService creates a new message service. store may be nil when
// only ad-hoc enrichment is needed.
func NewMessageService(chain driven.EnrichmentChain, store driven.MessageStore) *MessageService {
	return &MessageService{
		chain: chain,
		store: store,
		now:   time.Now,
	}
}

// Enrich runs the enrichment chain over msg.
func (s *MessageService) Enrich(msg domain.Message) domain.EnrichedMessage {
	return s.chain.Process(msg)
}

// EnrichText wraps text in a fresh message and enriches it.
func (s *MessageService) EnrichText(text string) domain.EnrichedMessage {
	return s.Enrich(domain.Message{
		ID:        uuid.NewString(),
		Text:      &text,
		Timestamp: s.now().UTC(),
		IsFromMe:  true,
	})
}

// Get loads a stored message and enriches it.
func (s *MessageService) Get(ctx context.Context, id string) (*domain.EnrichedMessage, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	enriched := s.Enrich(*msg)
	return &enriched, nil
}

// ListConversation loads up to limit messages of a conversation and
// enriches each one. A limit <= 0 returns every message.
func (s *MessageService) ListConversation(ctx context.Context, conversationID string, limit int) ([]domain.EnrichedMessage, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id required: %w", domain.ErrInvalidInput)
	}

	msgs, err := s.store.ListConversation(ctx, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversation %s: %w", conversationID, err)
	}

	out := make([]domain.EnrichedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, s.Enrich(m))
	}
	return out, nil
}
