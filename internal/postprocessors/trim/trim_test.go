package trim

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

type wordCounter struct{}

func (wordCounter) Count(s string) int { return len(strings.Fields(s)) }
func (wordCounter) Name() string       { return "words" }

func TestProcess(t *testing.T) {
	nodes := []domain.DocumentNode{
		{ID: "a", Index: 0, Text: "hello   there\n\nfriend", Tokens: 99},
		{ID: "b", Index: 1, Text: " \t\n"},
		{ID: "c", Index: 2, Text: "done.", Tokens: 1},
	}

	out, err := New(wordCounter{}).Process(context.Background(), "", nodes)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, domain.DocumentNode{ID: "a", Index: 0, Text: "hello there friend", Tokens: 3}, out[0])
	assert.Equal(t, domain.DocumentNode{ID: "c", Index: 1, Text: "done.", Tokens: 1}, out[1])
	assert.Equal(t, "hello   there\n\nfriend", nodes[0].Text, "input must not be modified")
}

func TestProcess_AllBlank(t *testing.T) {
	_, err := New(nil).Process(context.Background(), "", []domain.DocumentNode{{Text: "  "}})
	assert.ErrorIs(t, err, domain.ErrEmptyTranscript)

	_, err = New(nil).Process(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyTranscript)
}

func TestName(t *testing.T) {
	assert.Equal(t, "trim", New(nil).Name())
}
