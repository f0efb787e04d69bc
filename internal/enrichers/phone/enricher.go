// Package phone detects phone numbers in message text.
package phone

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/enrichers/span"
)

// Ensure Enricher implements the interface.
var _ driven.Enricher = (*Enricher)(nil)

// Name is the registry name of this enricher.
const Name = "phone"

// Priority runs phone detection after codes and before mentions.
const Priority = 150

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "US"

// candidatePattern finds spans that look like a phone number: an optional
// leading + or (, a digit, digits and separators, and a closing digit.
// Each candidate is then validated against the numbering plan.
var candidatePattern = regexp.MustCompile(`\+?\(?\d[\d \t().\-]{5,18}\d`)

// Enricher highlights valid phone numbers. Numbers without a country code
// are interpreted in the configured region.
type Enricher struct {
	region string
}

// New creates a phone enricher for region, an ISO 3166 alpha-2 code.
// An empty region falls back to DefaultRegion.
func New(region string) *Enricher {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Enricher{region: region}
}

// Name returns the enricher name.
func (e *Enricher) Name() string {
	return Name
}

// Priority returns the execution priority.
func (e *Enricher) Priority() int {
	return Priority
}

// Region returns the default region numbers are parsed in.
func (e *Enricher) Region() string {
	return e.region
}

// Enrich appends a phoneNumber highlight for every valid number, in text
// order. It reads the original text, not a lower-cased copy.
func (e *Enricher) Enrich(msg *domain.EnrichedMessage) {
	text, ok := msg.Body()
	if !ok {
		return
	}

	var idx *span.Index
	for pos := 0; pos < len(text); {
		loc := candidatePattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		from, to := pos+loc[0], pos+loc[1]
		end, next := e.longestValid(text, from, to)
		pos = next
		if end < 0 {
			continue
		}
		if idx == nil {
			idx = span.New(text)
		}
		start, stop := idx.Range(from, end)
		msg.AddHighlight(domain.TextHighlight{
			Text:        text[from:end],
			StartOffset: start,
			EndOffset:   stop,
			Kind:        domain.HighlightPhoneNumber,
		})
	}
}

// longestValid looks for the longest valid number starting at from inside
// the candidate text[from:to]. The whole candidate is tried first, then
// prefixes that stop at whitespace after a digit, so "415-555-2671 24/7"
// still yields the number. It returns the end of the number (or -1) and
// the offset scanning resumes at.
func (e *Enricher) longestValid(text string, from, to int) (end, next int) {
	cuts := []int{to}
	for i := to - 1; i > from; i-- {
		if (text[i] == ' ' || text[i] == '\t') && isDigit(text[i-1]) {
			cuts = append(cuts, i)
		}
	}

	if boundedStart(text, from) {
		for _, c := range cuts {
			if boundedEnd(text, c) && e.valid(text[from:c]) {
				return c, c
			}
		}
	}

	// Nothing valid from here: resume after the first digit group so a
	// number later in the run is still found.
	return -1, cuts[len(cuts)-1]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (e *Enricher) valid(candidate string) bool {
	num, err := phonenumbers.Parse(candidate, e.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// boundedStart and boundedEnd reject candidates glued to surrounding
// letters or digits, e.g. the tail of an order reference like
// "INV4155552671".
func boundedStart(text string, from int) bool {
	if from == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:from])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundedEnd(text string, to int) bool {
	if to >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[to:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
