package enrichers

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
)

// BuilderFunc creates an Enricher from generic config.
// Config is a map of enricher-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.Enricher, error)

// Registry maps enricher names to their builders.
// It allows the chain to be assembled from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new enricher builder registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds an enricher builder to the registry.
// Name should be unique and match the enricher's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates an enricher by name with the given config.
// An unregistered name yields an error wrapping domain.ErrUnsupportedType.
func (r *Registry) Build(name string, cfg map[string]any) (driven.Enricher, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown enricher %q: %w", name, domain.ErrUnsupportedType)
	}
	return builder(cfg)
}

// BuildAll creates the named enrichers, each with its own config section.
func (r *Registry) BuildAll(names []string, cfgs map[string]map[string]any) ([]driven.Enricher, error) {
	out := make([]driven.Enricher, 0, len(names))
	for _, name := range names {
		e, err := r.Build(name, cfgs[name])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Has returns true if an enricher with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered enricher names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
