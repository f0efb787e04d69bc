// Package emoji classifies messages that consist of a few emoji only,
// which clients render as "big emoji".
package emoji

import (
	"strings"

	"github.com/forPelevin/gomoji"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/enrichers/span"
)

// Ensure Enricher implements the interface.
var _ driven.Enricher = (*Enricher)(nil)

// Name is the registry name of this enricher.
const Name = "emoji"

// Priority runs the classifier last.
const Priority = 50

// DefaultMaxCount is the largest number of emoji still shown big.
const DefaultMaxCount = 5

const variationSelector16 = "\uFE0F"

// Enricher sets IsEmojiOnly when the trimmed text is 1 to maxCount emoji
// graphemes and nothing else.
type Enricher struct {
	maxCount int
}

// New creates an emoji-only classifier. A maxCount <= 0 uses
// DefaultMaxCount.
func New(maxCount int) *Enricher {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	return &Enricher{maxCount: maxCount}
}

// Name returns the enricher name.
func (e *Enricher) Name() string {
	return Name
}

// Priority returns the execution priority.
func (e *Enricher) Priority() int {
	return Priority
}

// Enrich sets msg.IsEmojiOnly when the body qualifies. It never clears a
// flag set earlier.
func (e *Enricher) Enrich(msg *domain.EnrichedMessage) {
	text, ok := msg.Body()
	if !ok {
		return
	}
	if IsEmojiOnly(text, e.maxCount) {
		msg.IsEmojiOnly = true
	}
}

// IsEmojiOnly reports whether text, ignoring surrounding whitespace, is
// between 1 and maxCount emoji graphemes.
func IsEmojiOnly(text string, maxCount int) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	clusters := span.Clusters(trimmed)
	if len(clusters) > maxCount {
		return false
	}
	for _, g := range clusters {
		if !IsEmoji(g) {
			return false
		}
	}
	return true
}

// IsEmoji reports whether a single grapheme cluster is an emoji. Symbols
// that default to text presentation, such as "©" or "™", only count when
// written with U+FE0F.
func IsEmoji(grapheme string) bool {
	if _, err := gomoji.GetInfo(grapheme); err == nil {
		return true
	}
	if stripped := strings.ReplaceAll(grapheme, variationSelector16, ""); stripped != grapheme && stripped != "" {
		if _, err := gomoji.GetInfo(stripped); err == nil {
			return true
		}
	}
	return false
}
