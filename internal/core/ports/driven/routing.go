package driven

import (
	"context"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// Chooser picks exactly one tool for a question.
// Implementations typically delegate to a language model.
type Chooser interface {
	// Choose returns the selected tool. The decision index must be in
	// [0, len(tools)); implementations return an error otherwise.
	Choose(ctx context.Context, question string, tools []domain.ToolDescriptor) (domain.RouterDecision, error)
}

// Answerer turns a fully rendered prompt into text.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// QueryEngine answers a question over a built index.
type QueryEngine interface {
	Query(ctx context.Context, question string) (string, error)
}
