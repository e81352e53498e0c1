// Package llm implements tool selection by asking a language model to pick
// one numbered choice and reply in JSON.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// Ensure Selector implements the interface.
var _ driven.Chooser = (*Selector)(nil)

// errNoChoice is returned when the model reply holds no usable choice.
var errNoChoice = errors.New("no choice in selector output")

// Selector asks an LLM which tool fits a question.
type Selector struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// New creates a Selector.
func New(llm driven.LLMService, prompts driven.PromptStore) *Selector {
	return &Selector{llm: llm, prompts: prompts}
}

// Choose renders the numbered tool list, asks the model and parses its reply.
// The model answers with 1-based choices; the returned index is 0-based.
// A reply that names no valid choice is an error, never a default.
func (s *Selector) Choose(ctx context.Context, question string, tools []domain.ToolDescriptor) (domain.RouterDecision, error) {
	if len(tools) == 0 {
		return domain.RouterDecision{}, &domain.QueryRoutingError{
			Stage: domain.RoutingStageSelect,
			Err:   fmt.Errorf("%w: no tools to choose from", domain.ErrInvalidInput),
		}
	}

	if s.llm == nil {
		return domain.RouterDecision{}, &domain.QueryRoutingError{Stage: domain.RoutingStageSelect, Err: domain.ErrLLMUnavailable}
	}

	prompt, err := s.prompts.Render(driven.PromptRouterSelect, driven.PromptData{
		Query:      question,
		Choices:    FormatChoices(tools),
		NumChoices: len(tools),
	})
	if err != nil {
		return domain.RouterDecision{}, &domain.QueryRoutingError{Stage: domain.RoutingStageSelect, Err: err}
	}

	out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: driven.Temperature(0)})
	if err != nil {
		return domain.RouterDecision{}, &domain.QueryRoutingError{Stage: domain.RoutingStageSelect, Err: err}
	}
	logger.Debug("selector output: %s", out)

	choice, reason, err := ParseChoice(out)
	if err != nil {
		return domain.RouterDecision{}, &domain.QueryRoutingError{Stage: domain.RoutingStageSelect, Err: err}
	}
	if choice < 1 || choice > len(tools) {
		return domain.RouterDecision{}, &domain.QueryRoutingError{
			Stage:  domain.RoutingStageSelect,
			Choice: choice,
			Err:    fmt.Errorf("choice out of range [1, %d]", len(tools)),
		}
	}

	return domain.RouterDecision{Index: choice - 1, Reason: reason}, nil
}

// FormatChoices renders tools as "(1) description" blocks separated by blank lines.
func FormatChoices(tools []domain.ToolDescriptor) string {
	var b strings.Builder
	for i, t := range tools {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "(%d) %s", i+1, t.Description)
	}
	return b.String()
}

// ParseChoice extracts the first choice and its reason from model output.
// The output may wrap the JSON in prose or code fences, and may be a list of
// objects or a single object.
func ParseChoice(output string) (int, string, error) {
	doc, ok := extractJSON(output)
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", errNoChoice, truncate(output, 200))
	}

	res := gjson.Parse(doc)
	if res.IsArray() {
		res = res.Get("0")
	}

	c := res.Get("choice")
	if !c.Exists() {
		return 0, "", fmt.Errorf("%w: %q", errNoChoice, truncate(doc, 200))
	}

	var choice int
	switch c.Type {
	case gjson.Number:
		choice = int(c.Int())
	case gjson.String:
		if _, err := fmt.Sscanf(strings.TrimSpace(c.Str), "%d", &choice); err != nil {
			return 0, "", fmt.Errorf("%w: choice %q is not a number", errNoChoice, c.Str)
		}
	default:
		return 0, "", fmt.Errorf("%w: choice has type %s", errNoChoice, c.Type)
	}

	return choice, res.Get("reason").String(), nil
}

// extractJSON returns the outermost JSON array or object in s.
func extractJSON(s string) (string, bool) {
	for _, pair := range [][2]byte{{'[', ']'}, {'{', '}'}} {
		start := strings.IndexByte(s, pair[0])
		end := strings.LastIndexByte(s, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := s[start : end+1]
		if gjson.Valid(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
