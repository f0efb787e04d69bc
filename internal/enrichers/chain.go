package enrichers

import (
	"sync"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// Ensure Chain implements the interface.
var _ driven.EnrichmentChain = (*Chain)(nil)

// Chain runs registered enrichers in descending priority order.
// Enrichers with equal priority run in registration order.
//
// Registration is serialised. Process copies the enricher list under a
// read lock and runs the copy unlocked, so a slow enrichment never blocks
// registration or other Process calls.
type Chain struct {
	mu        sync.RWMutex
	enrichers []driven.Enricher // kept sorted by execution order
}

// NewChain creates a chain with the given enrichers registered in order.
func NewChain(enrichers ...driven.Enricher) *Chain {
	c := &Chain{}
	for _, e := range enrichers {
		c.Register(e)
	}
	return c
}

// Register adds an enricher. It does not deduplicate.
func (c *Chain) Register(e driven.Enricher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enrichers = insertOrdered(c.enrichers, e)
	logger.Debug("registered enricher %s (priority %d)", e.Name(), e.Priority())
}

// Replace swaps the whole enricher set in one step. Concurrent Process
// calls see either the old set or the new one.
func (c *Chain) Replace(enrichers ...driven.Enricher) {
	var next []driven.Enricher
	for _, e := range enrichers {
		next = insertOrdered(next, e)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.enrichers = next
}

// Reset removes every enricher.
func (c *Chain) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enrichers = nil
}

// All returns a copy of the registered enrichers in execution order.
func (c *Chain) All() []driven.Enricher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]driven.Enricher, len(c.enrichers))
	copy(out, c.enrichers)
	return out
}

// Len returns the number of registered enrichers.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.enrichers)
}

// Process enriches msg with every registered enricher.
// It never fails: an enricher that cannot apply itself behaves as if it
// found nothing.
func (c *Chain) Process(msg domain.Message) domain.EnrichedMessage {
	enrichers := c.All()

	acc := domain.NewEnrichedMessage(msg)
	for _, e := range enrichers {
		apply(e, acc)
	}
	return *acc
}

// apply runs one enricher, containing a panic to that enricher.
func apply(e driven.Enricher, acc *domain.EnrichedMessage) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("enricher %s panicked on message %s: %v", e.Name(), acc.ID, r)
		}
	}()
	e.Enrich(acc)
}

// insertOrdered places e after every enricher with priority >= its own,
// which keeps the slice stable with respect to registration order.
func insertOrdered(list []driven.Enricher, e driven.Enricher) []driven.Enricher {
	pos := len(list)
	for i, existing := range list {
		if existing.Priority() < e.Priority() {
			pos = i
			break
		}
	}
	list = append(list, nil)
	copy(list[pos+1:], list[pos:])
	list[pos] = e
	return list
}
