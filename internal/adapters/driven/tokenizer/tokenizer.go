// Package tokenizer measures text in model tokens.
package tokenizer

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// DefaultEncoding is used when no encoding or model is configured.
const DefaultEncoding = "cl100k_base"

// Ensure counters implement the interface.
var (
	_ driven.TokenCounter = (*Tiktoken)(nil)
	_ driven.TokenCounter = Approximate{}
)

// Tiktoken counts tokens with a BPE encoding.
type Tiktoken struct {
	name string
	mu   sync.Mutex
	tke  *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding, or the encoding for a model name.
func NewTiktoken(encodingOrModel string) (*Tiktoken, error) {
	if encodingOrModel == "" {
		encodingOrModel = DefaultEncoding
	}
	tke, err := tiktoken.GetEncoding(encodingOrModel)
	if err != nil {
		var modelErr error
		tke, modelErr = tiktoken.EncodingForModel(encodingOrModel)
		if modelErr != nil {
			return nil, err
		}
	}
	return &Tiktoken{name: encodingOrModel, tke: tke}, nil
}

// Count returns the number of BPE tokens in text.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tke.Encode(text, nil, nil))
}

// Name returns the encoding name.
func (t *Tiktoken) Name() string {
	return t.name
}

// Approximate estimates tokens as one per four characters of each word,
// with every word counting at least one. Used when no encoding can be loaded.
type Approximate struct{}

// Count returns the estimated token count.
func (Approximate) Count(text string) int {
	n := 0
	for _, word := range strings.Fields(text) {
		n += (utf8.RuneCountInString(word) + 3) / 4
	}
	return n
}

// Name returns the counter name.
func (Approximate) Name() string {
	return "approximate"
}

// New returns a tiktoken counter for the encoding, falling back to an
// approximate counter if the encoding cannot be loaded (e.g. offline).
func New(encodingOrModel string) driven.TokenCounter {
	tc, err := NewTiktoken(encodingOrModel)
	if err != nil {
		logger.Warn("tokenizer: %s unavailable, using approximate counts: %v", encodingOrModel, err)
		return Approximate{}
	}
	return tc
}
