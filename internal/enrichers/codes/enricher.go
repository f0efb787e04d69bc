// Package codes detects one-time verification codes in message text.
package codes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/enrichers/span"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// Ensure Enricher implements the interface.
var _ driven.Enricher = (*Enricher)(nil)

// Name is the registry name of this enricher.
const Name = "codes"

// Priority runs code detection before every other built-in enricher.
const Priority = 200

// Default digit bounds for a code token.
const (
	DefaultMinDigits = 4
	DefaultMaxDigits = 8
)

// contextWords must appear (case-insensitively) somewhere in the text
// before any digit run is treated as a code.
var contextWords = []string{
	"code",
	"otp",
	"2fa",
	"password",
	"passcode",
	"pin",
	"verification",
	"verify",
	"sign in",
	"signin",
	"login",
	"log in",
	"security",
	"confirm",
	"authentication",
	"one-time",
	"token",
}

// Enricher finds digit-run codes in messages that mention a code context
// word. Every match is reported with high confidence.
type Enricher struct {
	minDigits int
	maxDigits int
	pattern   *regexp.Regexp // nil when compilation failed; Enrich is a no-op
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithDigitRange sets the accepted code length in digits.
func WithDigitRange(lo, hi int) Option {
	return func(e *Enricher) {
		e.minDigits = lo
		e.maxDigits = hi
	}
}

// New creates a code enricher.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		minDigits: DefaultMinDigits,
		maxDigits: DefaultMaxDigits,
	}
	for _, opt := range opts {
		opt(e)
	}

	pattern, err := regexp.Compile(fmt.Sprintf(`\b\d{%d,%d}\b`, e.minDigits, e.maxDigits))
	if err != nil {
		logger.Warn("codes: disabled, bad digit range %d-%d: %v", e.minDigits, e.maxDigits, err)
	} else {
		e.pattern = pattern
	}
	return e
}

// Name returns the enricher name.
func (e *Enricher) Name() string {
	return Name
}

// Priority returns the execution priority.
func (e *Enricher) Priority() int {
	return Priority
}

// Enrich appends a high-confidence DetectedCode and a code highlight for
// every digit run, provided the text contains a context word.
func (e *Enricher) Enrich(msg *domain.EnrichedMessage) {
	text, ok := msg.Body()
	if !ok || e.pattern == nil {
		return
	}
	if !hasContext(strings.ToLower(text)) {
		return
	}

	matches := e.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return
	}

	idx := span.New(text)
	for _, m := range matches {
		value := text[m[0]:m[1]]
		start, end := idx.Range(m[0], m[1])
		msg.AddCode(value, domain.ConfidenceHigh)
		msg.AddHighlight(domain.TextHighlight{
			Text:        value,
			StartOffset: start,
			EndOffset:   end,
			Kind:        domain.HighlightCode,
		})
	}
}

func hasContext(lower string) bool {
	for _, w := range contextWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
