package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Ensure LLMAnswerer implements the interface.
var _ driven.Answerer = (*LLMAnswerer)(nil)

// LLMAnswerer completes rendered prompts with a language model.
type LLMAnswerer struct {
	llm  driven.LLMService
	opts driven.GenerateOptions
}

// NewLLMAnswerer creates an answerer. maxTokens caps each completion.
func NewLLMAnswerer(llm driven.LLMService, maxTokens int) *LLMAnswerer {
	return &LLMAnswerer{
		llm: llm,
		opts: driven.GenerateOptions{
			MaxTokens:   maxTokens,
			Temperature: driven.Temperature(0.1),
		},
	}
}

// Answer returns the model's completion with surrounding whitespace removed.
func (a *LLMAnswerer) Answer(ctx context.Context, prompt string) (string, error) {
	if a.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	out, err := a.llm.Generate(ctx, prompt, a.opts)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", a.llm.ModelName(), err)
	}
	return strings.TrimSpace(out), nil
}
