package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// stubLLM echoes the prompt and records generation options.
type stubLLM struct {
	out  string
	err  error
	opts driven.GenerateOptions
}

func (l *stubLLM) Generate(_ context.Context, _ string, opts driven.GenerateOptions) (string, error) {
	l.opts = opts
	return l.out, l.err
}

func (l *stubLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return l.out, l.err
}

func (l *stubLLM) ModelName() string            { return "stub-llm" }
func (l *stubLLM) Ping(_ context.Context) error { return nil }
func (l *stubLLM) Close() error                 { return nil }

func TestLLMAnswerer_Answer(t *testing.T) {
	llm := &stubLLM{out: "  The budget passed.\n"}
	a := NewLLMAnswerer(llm, 256)

	got, err := a.Answer(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "The budget passed.", got)
	assert.Equal(t, 256, llm.opts.MaxTokens)
}

func TestLLMAnswerer_Error(t *testing.T) {
	cause := errors.New("timeout")
	_, err := NewLLMAnswerer(&stubLLM{err: cause}, 0).Answer(context.Background(), "prompt")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "stub-llm")
}

func TestLLMAnswerer_NoLLM(t *testing.T) {
	_, err := NewLLMAnswerer(nil, 0).Answer(context.Background(), "prompt")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
