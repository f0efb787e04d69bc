package domain

import (
	"encoding/json"
	"time"
)

// Message is a stored chat message as supplied by a MessageStore.
// The core never mutates it.
type Message struct {
	// ID is the unique identifier for the message.
	ID string `json:"id"`

	// Text is the message body. Nil when the message has no text
	// (attachment-only or system messages).
	Text *string `json:"text,omitempty"`

	// Timestamp is when the message was sent or received.
	Timestamp time.Time `json:"timestamp"`

	// IsFromMe is true for outgoing messages.
	IsFromMe bool `json:"isFromMe"`

	// ConversationID links the message to its conversation.
	ConversationID string `json:"conversationId"`
}

// Body returns the message text and whether the message has one.
func (m Message) Body() (string, bool) {
	if m.Text == nil {
		return "", false
	}
	return *m.Text, true
}

// Confidence grades how likely a DetectedCode is a real one-time code.
type Confidence string

const (
	// ConfidenceHigh is used when the code appeared next to a context word.
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium is reserved for context-less matches. No built-in
	// enricher produces it.
	ConfidenceMedium Confidence = "medium"
)

// DetectedCode is a verification or one-time code found in message text.
type DetectedCode struct {
	Value      string     `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// HighlightKind identifies what a TextHighlight marks.
type HighlightKind string

const (
	HighlightCode        HighlightKind = "code"
	HighlightPhoneNumber HighlightKind = "phoneNumber"
	HighlightMention     HighlightKind = "mention"
)

// TextHighlight marks a span of message text for the UI.
// Offsets count grapheme clusters, not bytes or runes, and describe the
// half-open range [StartOffset, EndOffset).
type TextHighlight struct {
	Text        string        `json:"text"`
	StartOffset int           `json:"startOffset"`
	EndOffset   int           `json:"endOffset"`
	Kind        HighlightKind `json:"kind"`
}

// Mention is an @handle found in message text.
type Mention struct {
	Text string `json:"text"`

	// ResolvedHandle is always nil; contact resolution is not implemented.
	ResolvedHandle *string `json:"resolvedHandle"`
}

// EnrichedMessage wraps a Message and accumulates the output of the
// enrichment chain. Enrichers only append or set fields, they never remove
// what an earlier enricher added.
type EnrichedMessage struct {
	Message

	DetectedCodes []DetectedCode  `json:"detectedCodes"`
	Highlights    []TextHighlight `json:"highlights"`
	Mentions      []Mention       `json:"mentions"`
	IsEmojiOnly   bool            `json:"isEmojiOnly"`
}

// NewEnrichedMessage seeds an accumulator from m with every enrichment
// field empty.
func NewEnrichedMessage(m Message) *EnrichedMessage {
	return &EnrichedMessage{Message: m}
}

// AddCode appends a detected code.
func (e *EnrichedMessage) AddCode(value string, confidence Confidence) {
	e.DetectedCodes = append(e.DetectedCodes, DetectedCode{Value: value, Confidence: confidence})
}

// AddHighlight appends a highlight span.
func (e *EnrichedMessage) AddHighlight(h TextHighlight) {
	e.Highlights = append(e.Highlights, h)
}

// AddMention appends a mention.
func (e *EnrichedMessage) AddMention(m Mention) {
	e.Mentions = append(e.Mentions, m)
}

// HighlightsOfKind returns the highlights of the given kind in order.
func (e *EnrichedMessage) HighlightsOfKind(kind HighlightKind) []TextHighlight {
	var out []TextHighlight
	for _, h := range e.Highlights {
		if h.Kind == kind {
			out = append(out, h)
		}
	}
	return out
}

// MarshalJSON emits empty arrays instead of null so clients always see
// every accumulator field.
func (e EnrichedMessage) MarshalJSON() ([]byte, error) {
	type alias EnrichedMessage
	out := alias(e)
	if out.DetectedCodes == nil {
		out.DetectedCodes = []DetectedCode{}
	}
	if out.Highlights == nil {
		out.Highlights = []TextHighlight{}
	}
	if out.Mentions == nil {
		out.Mentions = []Mention{}
	}
	return json.Marshal(out)
}
