// Package splitter packs transcript sentences into token-bounded nodes.
package splitter

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Name is the processor name used in configuration.
const Name = "splitter"

// DefaultChunkSize is the default maximum number of tokens per node.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping tokens.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Ensure Processor implements the interface.
var _ driven.NodeProcessor = (*Processor)(nil)

// Processor splits text on sentence boundaries and greedily packs whole
// sentences into nodes of at most chunkSize tokens. A sentence longer than
// chunkSize is cut into pieces first.
type Processor struct {
	tokens    driven.TokenCounter
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Processor)

// WithChunkSize sets the node size cap in tokens.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets how many tokens of trailing sentences are repeated at the
// start of the next node.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a splitter measuring length with tokens.
func New(tokens driven.TokenCounter, opts ...Option) *Processor {
	p := &Processor{
		tokens:    tokens,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// ChunkSize returns the node size cap in tokens.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Process splits text into nodes. Input nodes are ignored.
func (p *Processor) Process(ctx context.Context, text string, _ []domain.DocumentNode) ([]domain.DocumentNode, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.EmptyTranscriptError{}
	}

	units, err := p.units(ctx, text)
	if err != nil {
		return nil, err
	}

	chunks := p.pack(units)
	nodes := make([]domain.DocumentNode, 0, len(chunks))
	for _, c := range chunks {
		nodes = append(nodes, domain.DocumentNode{
			ID:     uuid.New().String(),
			Index:  len(nodes),
			Text:   c,
			Tokens: p.tokens.Count(c),
		})
	}
	if len(nodes) == 0 {
		return nil, &domain.EmptyTranscriptError{}
	}
	return nodes, nil
}

// unit is a sentence, or a piece of an over-long sentence.
type unit struct {
	text   string
	tokens int
}

// units splits text into sentences and cuts any sentence over the cap.
func (p *Processor) units(ctx context.Context, text string) ([]unit, error) {
	var forced *textsplitter.RecursiveCharacter

	var out []unit
	for _, s := range SplitSentences(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := p.tokens.Count(s)
		if n <= p.chunkSize {
			out = append(out, unit{text: s, tokens: n})
			continue
		}

		if forced == nil {
			rc := textsplitter.NewRecursiveCharacter(
				textsplitter.WithChunkSize(p.chunkSize),
				textsplitter.WithChunkOverlap(0),
				textsplitter.WithLenFunc(p.tokens.Count),
			)
			forced = &rc
		}
		pieces, err := forced.SplitText(s)
		if err != nil {
			return nil, fmt.Errorf("split long sentence: %w", err)
		}
		for _, piece := range pieces {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			out = append(out, unit{text: piece, tokens: p.tokens.Count(piece)})
		}
	}
	return out, nil
}

// pack greedily joins units into chunks of at most chunkSize tokens.
// Each new chunk starts with the trailing units of the previous chunk that
// fit within the overlap budget.
func (p *Processor) pack(units []unit) []string {
	var chunks []string
	var current []unit

	fits := func(cand []unit) bool {
		return p.tokens.Count(joinUnits(cand)) <= p.chunkSize
	}

	for _, u := range units {
		if len(current) == 0 {
			current = []unit{u}
			continue
		}

		cand := append(current[:len(current):len(current)], u)
		if fits(cand) {
			current = cand
			continue
		}

		chunks = append(chunks, joinUnits(current))
		current = append(p.overlapTail(current), u)
		for len(current) > 1 && !fits(current) {
			current = current[1:]
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, joinUnits(current))
	}
	return chunks
}

// overlapTail returns the longest suffix of prev within the overlap budget.
// It never returns all of prev, so each chunk advances.
func (p *Processor) overlapTail(prev []unit) []unit {
	if p.overlap == 0 {
		return nil
	}
	total := 0
	start := len(prev)
	for i := len(prev) - 1; i > 0; i-- {
		if total+prev[i].tokens > p.overlap {
			break
		}
		total += prev[i].tokens
		start = i
	}
	tail := make([]unit, len(prev)-start, len(prev)-start+1)
	copy(tail, prev[start:])
	return tail
}

func joinUnits(units []unit) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = u.text
	}
	return strings.Join(parts, " ")
}

// SplitSentences splits text after sentence-ending punctuation followed by
// whitespace, and at blank lines. Sentences are trimmed; empty ones dropped.
func SplitSentences(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0

	emit := func(end int) {
		if s := strings.TrimSpace(string(rs[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; {
		case isTerminal(r):
			j := i + 1
			for j < len(rs) && (isTerminal(rs[j]) || isCloser(rs[j])) {
				j++
			}
			if j == len(rs) || unicode.IsSpace(rs[j]) {
				emit(j)
			}
			i = j - 1
		case r == '\n':
			j := i + 1
			for j < len(rs) && (rs[j] == ' ' || rs[j] == '\t' || rs[j] == '\r') {
				j++
			}
			if j < len(rs) && rs[j] == '\n' {
				emit(i)
				i = j
			}
		}
	}
	emit(len(rs))
	return out
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '。', '！', '？':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '»':
		return true
	}
	return false
}
