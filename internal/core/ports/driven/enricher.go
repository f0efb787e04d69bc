package driven

import (
	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// Enricher annotates a message with detected structure.
// Enrichers are stateless and pure: they read the message text and append
// to the accumulator, never removing what earlier enrichers added and never
// changing the underlying text.
type Enricher interface {
	// Name returns the enricher name for logging and configuration.
	Name() string

	// Priority returns the execution priority (higher runs first).
	// Ties run in registration order.
	Priority() int

	// Enrich appends its findings to msg. An enricher that finds nothing,
	// or cannot apply itself, leaves msg unchanged.
	Enrich(msg *domain.EnrichedMessage)
}

// EnrichmentChain runs every registered Enricher over a message.
type EnrichmentChain interface {
	// Register adds an enricher. Registering the same enricher twice runs
	// it twice.
	Register(e Enricher)

	// Process enriches msg with every registered enricher in priority order.
	Process(msg domain.Message) domain.EnrichedMessage

	// All returns the registered enrichers in execution order.
	All() []Enricher
}
