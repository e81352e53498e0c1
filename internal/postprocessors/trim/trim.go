// Package trim cleans up node text after splitting.
package trim

import (
	"context"
	"strings"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Name is the processor name used in configuration.
const Name = "trim"

// Ensure Processor implements the interface.
var _ driven.NodeProcessor = (*Processor)(nil)

// Processor collapses runs of whitespace inside each node, drops nodes left
// empty and renumbers the rest.
type Processor struct {
	tokens driven.TokenCounter
}

// New creates a trim processor. tokens may be nil, in which case token
// counts are left as they were.
func New(tokens driven.TokenCounter) *Processor {
	return &Processor{tokens: tokens}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process normalises whitespace in nodes.
func (p *Processor) Process(_ context.Context, _ string, nodes []domain.DocumentNode) ([]domain.DocumentNode, error) {
	out := nodes[:0:0]
	for _, n := range nodes {
		text := strings.Join(strings.Fields(n.Text), " ")
		if text == "" {
			continue
		}
		if text != n.Text && p.tokens != nil {
			n.Tokens = p.tokens.Count(text)
		}
		n.Text = text
		n.Index = len(out)
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, &domain.EmptyTranscriptError{}
	}
	return out, nil
}
