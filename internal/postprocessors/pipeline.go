// Package postprocessors turns transcript text into the document nodes that
// the indices are built from.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.NodePipeline = (*Pipeline)(nil)

// Pipeline chains multiple NodeProcessors and runs them in order.
type Pipeline struct {
	processors []driven.NodeProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.NodeProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the text through all processors in order.
// The first processor receives nil nodes and should create them.
func (p *Pipeline) Process(ctx context.Context, text string) ([]domain.DocumentNode, error) {
	if len(p.processors) == 0 {
		return nil, fmt.Errorf("pipeline has no processors")
	}

	var nodes []domain.DocumentNode
	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		nodes, err = processor.Process(ctx, text, nodes)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return nodes, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.NodeProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
