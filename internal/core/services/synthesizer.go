package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// maxSummaryDepth bounds tree summarisation rounds.
const maxSummaryDepth = 8

// blockSeparator joins texts packed into one prompt.
const blockSeparator = "\n\n"

// SynthesizerConfig sizes prompts and fan-out.
type SynthesizerConfig struct {
	// ContextWindow is the model context size in tokens.
	ContextWindow int

	// NumOutput is the number of tokens reserved for the answer.
	NumOutput int

	// Concurrency bounds parallel model calls during tree summarisation.
	Concurrency int
}

// Synthesizer turns retrieved text into an answer through prompt templates.
type Synthesizer struct {
	answerer driven.Answerer
	prompts  driven.PromptStore
	tokens   driven.TokenCounter
	cfg      SynthesizerConfig
}

// NewSynthesizer creates a synthesizer. Zero config values take defaults.
func NewSynthesizer(
	answerer driven.Answerer,
	prompts driven.PromptStore,
	tokens driven.TokenCounter,
	cfg SynthesizerConfig,
) *Synthesizer {
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = domain.DefaultContextWindow
	}
	if cfg.NumOutput <= 0 {
		cfg.NumOutput = domain.DefaultNumOutput
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = domain.DefaultSummaryConcurrency
	}
	return &Synthesizer{
		answerer: answerer,
		prompts:  prompts,
		tokens:   tokens,
		cfg:      cfg,
	}
}

// TreeSummarize answers query over all texts. Texts are packed into
// prompt-sized blocks and answered concurrently; the partial answers are
// summarised again, in block order, until a single block remains.
func (s *Synthesizer) TreeSummarize(ctx context.Context, query string, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: nothing to summarise", domain.ErrInvalidInput)
	}

	for depth := 0; depth < maxSummaryDepth; depth++ {
		blocks, err := s.pack(query, texts, driven.PromptTreeSummarize)
		if err != nil {
			return "", err
		}

		if len(blocks) == 1 {
			return s.answer(ctx, driven.PromptTreeSummarize, driven.PromptData{Context: blocks[0], Query: query})
		}

		logger.Debug("tree summarize: level %d, %d texts in %d blocks", depth, len(texts), len(blocks))

		answers, err := s.answerBlocks(ctx, query, blocks)
		if err != nil {
			return "", err
		}
		texts = answers
	}

	return "", fmt.Errorf("tree summarize did not converge after %d levels", maxSummaryDepth)
}

// answerBlocks summarises each block in parallel. Results keep block order
// regardless of completion order.
func (s *Synthesizer) answerBlocks(ctx context.Context, query string, blocks []string) ([]string, error) {
	answers := make([]string, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, block := range blocks {
		g.Go(func() error {
			out, err := s.answer(gctx, driven.PromptTreeSummarize, driven.PromptData{Context: block, Query: query})
			if err != nil {
				return fmt.Errorf("summarise block %d: %w", i, err)
			}
			answers[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

// Compact answers query over texts packed into as few prompts as fit.
// The first block is answered directly; each later block refines the
// running answer.
func (s *Synthesizer) Compact(ctx context.Context, query string, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: no context to answer from", domain.ErrInvalidInput)
	}

	blocks, err := s.pack(query, texts, driven.PromptTextQA, driven.PromptRefine)
	if err != nil {
		return "", err
	}

	answer, err := s.answer(ctx, driven.PromptTextQA, driven.PromptData{Context: blocks[0], Query: query})
	if err != nil {
		return "", err
	}
	for _, block := range blocks[1:] {
		answer, err = s.answer(ctx, driven.PromptRefine, driven.PromptData{Context: block, Query: query, Answer: answer})
		if err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (s *Synthesizer) answer(ctx context.Context, prompt string, data driven.PromptData) (string, error) {
	rendered, err := s.prompts.Render(prompt, data)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", prompt, err)
	}
	return s.answerer.Answer(ctx, rendered)
}

// budget returns the tokens left for context once the largest of the named
// templates and the answer reservation are accounted for.
func (s *Synthesizer) budget(query string, prompts ...string) (int, error) {
	overhead := 0
	for _, name := range prompts {
		rendered, err := s.prompts.Render(name, driven.PromptData{Query: query})
		if err != nil {
			return 0, fmt.Errorf("render %s prompt: %w", name, err)
		}
		overhead = max(overhead, s.tokens.Count(rendered))
	}

	available := s.cfg.ContextWindow - s.cfg.NumOutput - overhead
	if available <= 0 {
		return 0, errors.New("context window too small for prompt template and question")
	}
	return available, nil
}

// pack groups texts greedily into blocks that fit the prompt budget.
// A text larger than the budget is split on its own.
func (s *Synthesizer) pack(query string, texts []string, prompts ...string) ([]string, error) {
	limit, err := s.budget(query, prompts...)
	if err != nil {
		return nil, err
	}

	var (
		blocks  []string
		current []string
		used    int
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, blockSeparator))
			current, used = nil, 0
		}
	}

	sep := s.tokens.Count(blockSeparator)
	for _, text := range texts {
		n := s.tokens.Count(text)
		if n > limit {
			flush()
			parts, err := s.split(text, limit)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, parts...)
			continue
		}
		if len(current) > 0 && used+sep+n > limit {
			flush()
		}
		if len(current) > 0 {
			used += sep
		}
		current = append(current, text)
		used += n
	}
	flush()

	return blocks, nil
}

func (s *Synthesizer) split(text string, limit int) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(limit),
		textsplitter.WithChunkOverlap(0),
		textsplitter.WithLenFunc(s.tokens.Count),
	)
	parts, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split oversized context: %w", err)
	}
	return parts, nil
}
