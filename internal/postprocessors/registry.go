package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Deps are shared services handed to every processor builder.
type Deps struct {
	Tokens driven.TokenCounter
}

// BuilderFunc creates a NodeProcessor from generic config.
// Config is a map of processor-specific settings parsed from user config.
type BuilderFunc func(deps Deps, cfg map[string]any) (driven.NodeProcessor, error)

// Registry maps processor names to their builders.
// It allows dynamic construction of pipelines from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new processor registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a processor builder to the registry.
// Name should be unique and match the processor's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a processor by name with the given config.
func (r *Registry) Build(name string, deps Deps, cfg map[string]any) (driven.NodeProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown processor: %s", name)
	}
	return builder(deps, cfg)
}

// BuildPipeline creates a pipeline from processor names, all sharing cfg.
func (r *Registry) BuildPipeline(names []string, deps Deps, cfg map[string]any) (*Pipeline, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no processors configured")
	}
	p := NewPipeline()
	for _, name := range names {
		proc, err := r.Build(name, deps, cfg)
		if err != nil {
			return nil, err
		}
		p.Add(proc)
	}
	return p, nil
}

// Has returns true if a processor with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered processor names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
