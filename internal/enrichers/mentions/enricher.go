// Package mentions extracts @handles from message text.
package mentions

import (
	"regexp"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/enrichers/span"
)

// Ensure Enricher implements the interface.
var _ driven.Enricher = (*Enricher)(nil)

// Name is the registry name of this enricher.
const Name = "mentions"

// Priority runs mention extraction after codes and phone numbers.
const Priority = 100

var mentionPattern = regexp.MustCompile(`@\w+`)

// Enricher records every "@" followed by word characters as a Mention.
// Handles are not resolved to contacts.
type Enricher struct{}

// New creates a mention enricher.
func New() *Enricher {
	return &Enricher{}
}

// Name returns the enricher name.
func (e *Enricher) Name() string {
	return Name
}

// Priority returns the execution priority.
func (e *Enricher) Priority() int {
	return Priority
}

// Enrich appends a Mention and a mention highlight per match, in order.
func (e *Enricher) Enrich(msg *domain.EnrichedMessage) {
	text, ok := msg.Body()
	if !ok {
		return
	}

	matches := mentionPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return
	}

	idx := span.New(text)
	for _, m := range matches {
		value := text[m[0]:m[1]]
		start, end := idx.Range(m[0], m[1])
		msg.AddMention(domain.Mention{Text: value})
		msg.AddHighlight(domain.TextHighlight{
			Text:        value,
			StartOffset: start,
			EndOffset:   end,
			Kind:        domain.HighlightMention,
		})
	}
}
