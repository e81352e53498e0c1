package driven

import (
	"context"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// NodeProcessor turns transcript text into document nodes or refines them.
// Processors are chained in a pipeline (e.g., splitting, trimming).
type NodeProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the nodes for text.
	// The first processor in a pipeline receives nil nodes and creates them;
	// later processors receive and may modify the nodes.
	Process(ctx context.Context, text string, nodes []domain.DocumentNode) ([]domain.DocumentNode, error)
}

// NodePipeline chains multiple NodeProcessors.
type NodePipeline interface {
	// Process runs text through all processors in order.
	// Returns the final nodes after all processing.
	Process(ctx context.Context, text string) ([]domain.DocumentNode, error)
}
