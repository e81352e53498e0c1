// Package ollama provides an LLM service adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using Ollama's chat endpoint.
type LLMService struct {
	client  *http.Client
	baseURL string
	model   string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Generate produces text completion from a single user prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	msgs := []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}
	return s.chat(ctx, msgs, buildOptions(opts.MaxTokens, opts.Temperature, opts.StopWords))
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return s.chat(ctx, messages, buildOptions(opts.MaxTokens, opts.Temperature, nil))
}

func buildOptions(maxTokens int, temperature *float64, stop []string) *options {
	if maxTokens <= 0 && temperature == nil && len(stop) == 0 {
		return nil
	}
	return &options{NumPredict: maxTokens, Temperature: temperature, Stop: stop}
}

func (s *LLMService) chat(ctx context.Context, messages []driven.ChatMessage, opts *options) (string, error) {
	reqBody := chatRequest{
		Model:    s.model,
		Messages: make([]chatMessage, len(messages)),
		Options:  opts,
	}
	for i, msg := range messages {
		reqBody.Messages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return parseChat(resp.StatusCode, body)
}

// parseChat extracts the assistant reply from a non-streaming /api/chat body.
func parseChat(status int, body []byte) (string, error) {
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return "", fmt.Errorf("ollama error (status %d): %s", status, msg.String())
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("ollama error (status %d): %s", status, bytes.TrimSpace(body))
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("decode response: invalid JSON")
	}
	content := gjson.GetBytes(body, "message.content")
	if !content.Exists() {
		return "", fmt.Errorf("ollama: response has no message content")
	}
	return content.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that the server is reachable and the configured model has been
// pulled. Tags are listed as "name:tag", so a bare model name matches ":latest".
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ollama: read tags: %w", err)
	}
	if !hasModel(body, s.model) {
		return fmt.Errorf("ollama: model %q not pulled (run `ollama pull %s`)", s.model, s.model)
	}
	return nil
}

func hasModel(tags []byte, model string) bool {
	found := false
	gjson.GetBytes(tags, "models.#.name").ForEach(func(_, name gjson.Result) bool {
		n := name.String()
		found = n == model || n == model+":latest"
		return !found
	})
	return found
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
