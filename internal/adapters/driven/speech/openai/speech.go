// Package openai provides a speech-to-text adapter for OpenAI-compatible
// transcription endpoints.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Ensure SpeechService implements the interface.
var _ driven.SpeechToText = (*SpeechService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = goopenai.Whisper1
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the speech-to-text service.
type Config struct {
	// APIKey is the API key. Optional when BaseURL points at a self-hosted server.
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the transcription model (default: whisper-1).
	Model string

	// Language is an optional ISO-639-1 hint.
	Language string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration
}

// SpeechService transcribes audio files with the /audio/transcriptions endpoint.
type SpeechService struct {
	client   *goopenai.Client
	model    string
	language string
}

// NewSpeechService creates a new speech-to-text service.
func NewSpeechService(cfg Config) (*SpeechService, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &SpeechService{
		client:   goopenai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		language: cfg.Language,
	}, nil
}

// Transcribe sends one audio file and returns the recognised text, trimmed.
func (s *SpeechService) Transcribe(ctx context.Context, wav []byte, filename string) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}
	resp, err := s.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    s.model,
		FilePath: filename,
		Reader:   bytes.NewReader(wav),
		Language: s.language,
		Format:   goopenai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", wrapError(err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// ModelName returns the name of the transcription model being used.
func (s *SpeechService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by listing models.
func (s *SpeechService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", wrapError(err))
	}
	return nil
}

// Close releases resources.
func (s *SpeechService) Close() error {
	return nil
}

func wrapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai error (status %d): %w", apiErr.HTTPStatusCode, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai error (status %d): %w", reqErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("openai: %w", err)
}
