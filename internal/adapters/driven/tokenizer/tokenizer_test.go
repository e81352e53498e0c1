package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApproximate_Count(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"a", 1},
		{"word", 1},
		{"words", 2},
		{"the quick brown fox", 6},
		{"naïve café", 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Approximate{}.Count(tt.text))
		})
	}
}

func TestApproximate_Name(t *testing.T) {
	assert.Equal(t, "approximate", Approximate{}.Name())
}

func TestNew_AlwaysReturnsCounter(t *testing.T) {
	// Loading an encoding may need network access; either way a counter is returned.
	tc := New("no-such-encoding")
	assert.NotNil(t, tc)
	assert.Positive(t, tc.Count("hello world"))
}
