// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService completes prompts for the query router and the answer synthesizer.
// Transcription never touches it, so an unconfigured LLM only disables chat.
//
// Adapters: OpenAI-compatible APIs, Anthropic Messages, Ollama.
type LLMService interface {
	// Generate completes a single user prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat completes a conversation. System messages are passed through in
	// whatever form the provider expects.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the configured model identifier.
	ModelName() string

	// Ping makes a cheap authenticated request without running inference.
	Ping(ctx context.Context) error

	Close() error
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// GenerateOptions tunes a single completion. Zero values mean provider defaults.
type GenerateOptions struct {
	MaxTokens int

	// Temperature is nil for the provider default. Use Temperature(0) for
	// deterministic output such as tool selection.
	Temperature *float64

	StopWords []string
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tunes a chat completion. Zero values mean provider defaults.
type ChatOptions struct {
	MaxTokens   int
	Temperature *float64
}

// Temperature returns a pointer for the Temperature option fields.
func Temperature(t float64) *float64 {
	return &t
}
