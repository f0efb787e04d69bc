package handlers

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.HandlerRegistry = (*Registry)(nil)

// Registry dispatches MIME types to attachment handlers.
// The first registered handler with a matching pattern wins.
type Registry struct {
	mu       sync.RWMutex
	handlers []driven.AttachmentHandler
}

// NewRegistry creates a registry with the given handlers registered in order.
func NewRegistry(handlers ...driven.AttachmentHandler) *Registry {
	r := &Registry{}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

// Register appends a handler. It is tried after every earlier handler.
func (r *Registry) Register(h driven.AttachmentHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
	logger.Debug("registered handler %s for %v", h.Name(), h.SupportedMIMETypes())
}

// Lookup returns the first handler whose patterns match mimeType.
func (r *Registry) Lookup(mimeType string) (driven.AttachmentHandler, bool) {
	mimeType = domain.NormaliseMIMEType(mimeType)
	if mimeType == "" {
		return nil, false
	}
	for _, h := range r.All() {
		if HandlerMatches(h, mimeType) {
			return h, true
		}
	}
	return nil, false
}

// Reset removes every handler.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = nil
}

// All returns a copy of the registered handlers in registration order.
func (r *Registry) All() []driven.AttachmentHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]driven.AttachmentHandler, len(r.handlers))
	copy(out, r.handlers)
	return out
}

// SupportedMIMETypes returns every pattern accepted by some handler, sorted
// and deduplicated.
func (r *Registry) SupportedMIMETypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range r.All() {
		for _, p := range h.SupportedMIMETypes() {
			p = domain.NormaliseMIMEType(p)
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

// HandlerMatches reports whether any of h's patterns match mimeType.
func HandlerMatches(h driven.AttachmentHandler, mimeType string) bool {
	for _, p := range h.SupportedMIMETypes() {
		if Matches(p, mimeType) {
			return true
		}
	}
	return false
}

// Matches reports whether a MIME pattern matches a concrete MIME type.
// A pattern matches by exact equality, or, when it ends in "/*", when the
// top-level types are equal: "image/*" matches "image/png" but not
// "images/png". Comparison ignores case and MIME parameters.
func Matches(pattern, mimeType string) bool {
	pattern = domain.NormaliseMIMEType(pattern)
	mimeType = domain.NormaliseMIMEType(mimeType)
	if pattern == "" || mimeType == "" {
		return false
	}
	if pattern == mimeType {
		return true
	}
	family, ok := strings.CutSuffix(pattern, "/*")
	if !ok {
		return false
	}
	top, _, found := strings.Cut(mimeType, "/")
	return found && top == family
}
