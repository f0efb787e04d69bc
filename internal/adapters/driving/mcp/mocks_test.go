package mcp

import (
	"context"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// mockMessageService is a mock implementation of driving.MessageService.
type mockMessageService struct {
	message  *domain.EnrichedMessage
	messages []domain.EnrichedMessage
	err      error

	lastLimit int
}

func (m *mockMessageService) Enrich(msg domain.Message) domain.EnrichedMessage {
	return domain.EnrichedMessage{Message: msg}
}

func (m *mockMessageService) EnrichText(text string) domain.EnrichedMessage {
	e := domain.NewEnrichedMessage(domain.Message{ID: "adhoc", Text: &text, ConversationID: "adhoc"})
	if text == "Your code is 123456" {
		e.AddCode("123456", domain.ConfidenceHigh)
		e.AddHighlight(domain.TextHighlight{Text: "123456", StartOffset: 13, EndOffset: 19, Kind: domain.HighlightCode})
	}
	return *e
}

func (m *mockMessageService) Get(_ context.Context, _ string) (*domain.EnrichedMessage, error) {
	return m.message, m.err
}

func (m *mockMessageService) ListConversation(
	_ context.Context,
	_ string,
	limit int,
) ([]domain.EnrichedMessage, error) {
	m.lastLimit = limit
	return m.messages, m.err
}

// mockAttachmentService is a mock implementation of driving.AttachmentService.
type mockAttachmentService struct {
	metas map[string]domain.AttachmentMetadata
	err   error
}

func (m *mockAttachmentService) Get(_ context.Context, _ string) (*domain.Attachment, error) {
	return nil, m.err
}

func (m *mockAttachmentService) Thumbnail(_ context.Context, _ string, _ domain.Size) ([]byte, error) {
	return nil, m.err
}

func (m *mockAttachmentService) Metadata(_ context.Context, id string) (domain.AttachmentMetadata, error) {
	return m.metas[id], m.err
}

func (m *mockAttachmentService) MetadataBatch(
	_ context.Context,
	_ []string,
) (map[string]domain.AttachmentMetadata, error) {
	return m.metas, m.err
}

func ptr[T any](v T) *T { return &v }
