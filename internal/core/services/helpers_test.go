package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// wordCounter counts whitespace-separated words as tokens.
type wordCounter struct{}

func (wordCounter) Count(s string) int { return len(strings.Fields(s)) }
func (wordCounter) Name() string       { return "words" }

// stubPrompts renders every prompt as "name\nquery\nanswer\ncontext".
type stubPrompts struct{}

func (stubPrompts) Load(name string) (string, error) { return name, nil }
func (stubPrompts) Reload()                          {}

func (stubPrompts) Render(name string, data any) (string, error) {
	d, ok := data.(driven.PromptData)
	if !ok {
		return "", errors.New("unexpected prompt data")
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", name, d.Query, d.Answer, d.Context), nil
}

// promptParts splits a prompt rendered by stubPrompts.
func promptParts(prompt string) (name, query, answer, context string) {
	parts := strings.SplitN(prompt, "\n", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2], parts[3]
}

// funcAnswerer answers with fn and records every prompt.
type funcAnswerer struct {
	mu      sync.Mutex
	prompts []string
	fn      func(prompt string) (string, error)
}

func (a *funcAnswerer) Answer(_ context.Context, prompt string) (string, error) {
	a.mu.Lock()
	a.prompts = append(a.prompts, prompt)
	a.mu.Unlock()
	return a.fn(prompt)
}

func (a *funcAnswerer) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.prompts)
}

func (a *funcAnswerer) names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.prompts))
	for i, p := range a.prompts {
		out[i], _, _, _ = promptParts(p)
	}
	return out
}

// keywordEmbeddings embeds text by counting a fixed set of keywords,
// plus a constant component so no vector is zero.
type keywordEmbeddings struct {
	mu       sync.Mutex
	keywords []string
	batches  [][]string
}

func (e *keywordEmbeddings) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(e.keywords)+1)
	for i, k := range e.keywords {
		v[i] = float32(strings.Count(lower, k)) * 10
	}
	v[len(e.keywords)] = 1
	return v
}

func (e *keywordEmbeddings) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e *keywordEmbeddings) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.batches = append(e.batches, append([]string(nil), texts...))
	e.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbeddings) Dimensions() int              { return len(e.keywords) + 1 }
func (e *keywordEmbeddings) ModelName() string            { return "keywords" }
func (e *keywordEmbeddings) Ping(_ context.Context) error { return nil }
func (e *keywordEmbeddings) Close() error                 { return nil }

func (e *keywordEmbeddings) batchCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.batches)
}

// stubChooser picks a tool from the question text.
type stubChooser struct {
	index int
	err   error
	fn    func(question string) int
}

func (c stubChooser) Choose(_ context.Context, question string, _ []domain.ToolDescriptor) (domain.RouterDecision, error) {
	if c.err != nil {
		return domain.RouterDecision{}, c.err
	}
	if c.fn != nil {
		return domain.RouterDecision{Index: c.fn(question), Reason: "stub"}, nil
	}
	return domain.RouterDecision{Index: c.index, Reason: "stub"}, nil
}

// stubEngine returns a fixed response and counts queries.
type stubEngine struct {
	mu       sync.Mutex
	response string
	err      error
	queries  int
}

func (e *stubEngine) Query(_ context.Context, _ string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queries++
	return e.response, e.err
}
