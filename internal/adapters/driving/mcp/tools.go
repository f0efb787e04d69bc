package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

const (
	defaultConversationLimit = 50
	maxMetadataIDs           = 100
)

// EnrichTextInput is the input schema for the enrich_text tool.
type EnrichTextInput struct {
	Text string `json:"text" jsonschema:"the message text to enrich"`
}

// GetMessageInput is the input schema for the get_message tool.
type GetMessageInput struct {
	ID string `json:"id" jsonschema:"the stored message id"`
}

// ListConversationInput is the input schema for the list_conversation tool.
type ListConversationInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"the conversation id"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum number of messages to return (default 50)"`
}

// AttachmentMetadataInput is the input schema for the attachment_metadata tool.
type AttachmentMetadataInput struct {
	IDs []string `json:"ids" jsonschema:"attachment ids to inspect"`
}

// MessageOutput is a single enriched message.
type MessageOutput struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Text           string            `json:"text"`
	Timestamp      string            `json:"timestamp,omitempty"`
	IsFromMe       bool              `json:"is_from_me"`
	Codes          []CodeOutput      `json:"codes"`
	Highlights     []HighlightOutput `json:"highlights"`
	Mentions       []string          `json:"mentions"`
	IsEmojiOnly    bool              `json:"is_emoji_only"`
}

// CodeOutput is a detected one-time code.
type CodeOutput struct {
	Value      string `json:"value"`
	Confidence string `json:"confidence"`
}

// HighlightOutput is a highlighted span, offsets in grapheme clusters.
type HighlightOutput struct {
	Text  string `json:"text"`
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// ConversationOutput is the output schema for the list_conversation tool.
type ConversationOutput struct {
	Messages []MessageOutput `json:"messages"`
	Count    int             `json:"count"`
}

// AttachmentMetadataOutput is the output schema for the attachment_metadata tool.
type AttachmentMetadataOutput struct {
	Results []AttachmentMetadataResult `json:"results"`
	Count   int                        `json:"count"`
}

// AttachmentMetadataResult describes one attachment.
type AttachmentMetadataResult struct {
	ID              string  `json:"id"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// registerMessageTools registers the tools backed by the message service.
func (s *Server) registerMessageTools() {
	addTool(s, &mcp.Tool{
		Name:        "enrich_text",
		Description: "Detect one-time codes, phone numbers, mentions and emoji-only text in a message body",
	}, s.handleEnrichText)

	addTool(s, &mcp.Tool{
		Name:        "get_message",
		Description: "Load a stored message and return it enriched",
	}, s.handleGetMessage)

	addTool(s, &mcp.Tool{
		Name:        "list_conversation",
		Description: "List the enriched messages of a conversation, oldest first",
	}, s.handleListConversation)
}

// registerAttachmentTools registers the tools backed by the attachment
// service.
func (s *Server) registerAttachmentTools() {
	addTool(s, &mcp.Tool{
		Name:        "attachment_metadata",
		Description: "Extract dimensions and duration for stored attachments",
	}, s.handleAttachmentMetadata)
}

func (s *Server) handleEnrichText(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EnrichTextInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	enriched := s.ports.Messages.EnrichText(input.Text)
	out := toMessageOutput(enriched)
	// Ad-hoc text is never stored.
	out.ConversationID = ""
	out.Timestamp = ""
	return nil, out, nil
}

func (s *Server) handleGetMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetMessageInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	if input.ID == "" {
		return nil, MessageOutput{}, errors.New("id is required")
	}

	msg, err := s.ports.Messages.Get(ctx, input.ID)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	if msg == nil {
		return nil, MessageOutput{}, fmt.Errorf("message %s: %w", input.ID, domain.ErrNotFound)
	}
	return nil, toMessageOutput(*msg), nil
}

func (s *Server) handleListConversation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListConversationInput,
) (*mcp.CallToolResult, ConversationOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultConversationLimit
	}

	msgs, err := s.ports.Messages.ListConversation(ctx, input.ConversationID, limit)
	if err != nil {
		return nil, ConversationOutput{}, err
	}

	output := ConversationOutput{
		Messages: make([]MessageOutput, len(msgs)),
		Count:    len(msgs),
	}
	for i := range msgs {
		output.Messages[i] = toMessageOutput(msgs[i])
	}
	return nil, output, nil
}

func (s *Server) handleAttachmentMetadata(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AttachmentMetadataInput,
) (*mcp.CallToolResult, AttachmentMetadataOutput, error) {
	if len(input.IDs) == 0 {
		return nil, AttachmentMetadataOutput{}, errors.New("at least one id is required")
	}
	if len(input.IDs) > maxMetadataIDs {
		return nil, AttachmentMetadataOutput{}, fmt.Errorf("at most %d ids per call", maxMetadataIDs)
	}

	metas, err := s.ports.Attachments.MetadataBatch(ctx, input.IDs)
	if err != nil {
		return nil, AttachmentMetadataOutput{}, err
	}

	output := AttachmentMetadataOutput{Results: make([]AttachmentMetadataResult, 0, len(metas))}
	for id, meta := range metas {
		if meta.IsEmpty() {
			continue
		}
		r := AttachmentMetadataResult{ID: id}
		if meta.Width != nil {
			r.Width = *meta.Width
		}
		if meta.Height != nil {
			r.Height = *meta.Height
		}
		if meta.DurationSeconds != nil {
			r.DurationSeconds = *meta.DurationSeconds
		}
		output.Results = append(output.Results, r)
	}
	sort.Slice(output.Results, func(i, j int) bool {
		return output.Results[i].ID < output.Results[j].ID
	})
	output.Count = len(output.Results)
	return nil, output, nil
}

// toMessageOutput flattens an enriched message. Slices are never nil so
// the structured output validates against the array schema.
func toMessageOutput(m domain.EnrichedMessage) MessageOutput {
	text, _ := m.Body()
	out := MessageOutput{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Text:           text,
		IsFromMe:       m.IsFromMe,
		Codes:          make([]CodeOutput, 0, len(m.DetectedCodes)),
		Highlights:     make([]HighlightOutput, 0, len(m.Highlights)),
		Mentions:       make([]string, 0, len(m.Mentions)),
		IsEmojiOnly:    m.IsEmojiOnly,
	}
	if !m.Timestamp.IsZero() {
		out.Timestamp = m.Timestamp.UTC().Format(time.RFC3339)
	}
	for _, c := range m.DetectedCodes {
		out.Codes = append(out.Codes, CodeOutput{Value: c.Value, Confidence: string(c.Confidence)})
	}
	for _, h := range m.Highlights {
		out.Highlights = append(out.Highlights, HighlightOutput{
			Text:  h.Text,
			Kind:  string(h.Kind),
			Start: h.StartOffset,
			End:   h.EndOffset,
		})
	}
	for _, mention := range m.Mentions {
		out.Mentions = append(out.Mentions, mention.Text)
	}
	return out
}
