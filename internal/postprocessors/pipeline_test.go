package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined nodes.
type mockProcessor struct {
	name  string
	nodes []domain.DocumentNode
	err   error
	seen  []domain.DocumentNode
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ string, nodes []domain.DocumentNode) ([]domain.DocumentNode, error) {
	m.seen = nodes
	if m.err != nil {
		return nil, m.err
	}
	if m.nodes != nil {
		return m.nodes, nil
	}
	return nodes, nil
}

// wordCounter counts whitespace-separated words as tokens.
type wordCounter struct{}

func (wordCounter) Count(s string) int { return len(strings.Fields(s)) }
func (wordCounter) Name() string       { return "words" }

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())

	p.Add(&mockProcessor{name: "test"})
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"test"}, p.Names())
}

func TestPipeline_Process_Empty(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), "text")
	assert.Error(t, err)
}

func TestPipeline_Process_ChainsProcessors(t *testing.T) {
	created := []domain.DocumentNode{{ID: "1", Text: "a"}}
	first := &mockProcessor{name: "first", nodes: created}
	second := &mockProcessor{name: "second"}

	nodes, err := NewPipeline(first, second).Process(context.Background(), "a")

	require.NoError(t, err)
	assert.Nil(t, first.seen)
	assert.Equal(t, created, second.seen)
	assert.Equal(t, created, nodes)
}

func TestPipeline_Process_Error(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "bad", err: boom})

	_, err := p.Process(context.Background(), "a")

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "processor bad")
}

func TestPipeline_Process_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(&mockProcessor{name: "x"}).Process(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultPipeline_EndToEnd(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := r.BuildPipeline(DefaultProcessors, Deps{Tokens: wordCounter{}}, map[string]any{
		"chunk_size":    int64(4),
		"chunk_overlap": int64(0),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"splitter", "trim"}, p.Names())

	nodes, err := p.Process(context.Background(), "One two.   Three\tfour five. Six.")
	require.NoError(t, err)

	require.Len(t, nodes, 2)
	assert.Equal(t, "One two.", nodes[0].Text)
	assert.Equal(t, "Three four five. Six.", nodes[1].Text)
	assert.Equal(t, 4, nodes[1].Tokens)
}

func TestDefaultPipeline_EmptyTranscript(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	p, err := r.BuildPipeline(DefaultProcessors, Deps{Tokens: wordCounter{}}, nil)
	require.NoError(t, err)

	_, err = p.Process(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyTranscript)
}
