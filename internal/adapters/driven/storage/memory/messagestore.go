package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
)

// Ensure MessageStore implements the interfaces.
var (
	_ driven.MessageStore    = (*MessageStore)(nil)
	_ driven.AttachmentStore = (*MessageStore)(nil)
)

// MessageStore is an in-memory implementation of driven.MessageStore and
// driven.AttachmentStore.
type MessageStore struct {
	mu          sync.RWMutex
	messages    map[string]domain.Message
	attachments map[string]domain.Attachment
}

// NewMessageStore creates a new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages:    make(map[string]domain.Message),
		attachments: make(map[string]domain.Attachment),
	}
}

// SaveMessage stores or updates a message.
func (s *MessageStore) SaveMessage(_ context.Context, msg *domain.Message) error {
	if msg == nil || msg.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *msg
	if msg.Text != nil {
		text := *msg.Text
		m.Text = &text
	}
	s.messages[m.ID] = m
	return nil
}

// GetMessage retrieves a message by ID.
func (s *MessageStore) GetMessage(_ context.Context, id string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &msg, nil
}

// ListConversation returns up to limit messages of a conversation, oldest
// first. Messages with equal timestamps are ordered by ID.
func (s *MessageStore) ListConversation(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteMessage removes a message and its attachments.
func (s *MessageStore) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.messages, id)
	for attID, att := range s.attachments {
		if att.MessageID == id {
			delete(s.attachments, attID)
		}
	}
	return nil
}

// SaveAttachment stores or updates an attachment record.
func (s *MessageStore) SaveAttachment(_ context.Context, att *domain.Attachment) error {
	if att == nil || att.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *att
	if att.MIMEType != nil {
		mt := *att.MIMEType
		a.MIMEType = &mt
	}
	s.attachments[a.ID] = a
	return nil
}

// GetAttachment retrieves an attachment by ID.
func (s *MessageStore) GetAttachment(_ context.Context, id string) (*domain.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	att, ok := s.attachments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &att, nil
}

// ListByMessage returns the attachments of a message ordered by ID.
func (s *MessageStore) ListByMessage(_ context.Context, messageID string) ([]domain.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Attachment
	for _, a := range s.attachments {
		if a.MessageID == messageID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
