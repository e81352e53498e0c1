// Package ai builds the model adapters (LLM, embeddings, speech-to-text)
// from settings and checks that they are reachable.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/sercha-audio/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/sercha-audio/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/sercha-audio/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/sercha-audio/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sercha-audio/internal/adapters/driven/llm/openai"
	openaispeech "github.com/custodia-labs/sercha-audio/internal/adapters/driven/speech/openai"
	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// settingsHint is appended to configuration errors.
const settingsHint = "Run 'sercha-audio settings' to fix"

// InitResult holds the model services built from AppSettings.
// Services that are not configured are nil.
type InitResult struct {
	LLMService       driven.LLMService
	EmbeddingService driven.EmbeddingService
	SpeechService    driven.SpeechToText
	Warnings         []string
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.SpeechService != nil {
		_ = r.SpeechService.Close()
	}
}

// Init builds every configured service. With validate set each one is pinged;
// a failing service is reported as a warning and left nil.
func Init(settings *domain.AppSettings, validate bool) *InitResult {
	res := &InitResult{}

	build := func(name string, create func() (pinger, error), assign func(pinger)) {
		svc, err := create()
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", name, err))
			return
		}
		if svc == nil {
			return
		}
		if validate {
			if err := ping(svc); err != nil {
				_ = svc.Close()
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: service unreachable: %v", name, err))
				return
			}
		}
		assign(svc)
	}

	build("llm",
		func() (pinger, error) { return asPinger(CreateLLMService(&settings.LLM)) },
		func(p pinger) { res.LLMService = p.(driven.LLMService) })
	build("embedding",
		func() (pinger, error) { return asPinger(CreateEmbeddingService(&settings.Embedding)) },
		func(p pinger) { res.EmbeddingService = p.(driven.EmbeddingService) })
	build("speech",
		func() (pinger, error) { return asPinger(CreateSpeechService(&settings.Speech)) },
		func(p pinger) { res.SpeechService = p.(driven.SpeechToText) })

	for _, w := range res.Warnings {
		logger.Warn("%s", w)
	}
	return res
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}
	if svc == nil {
		return nil, nil
	}
	if err := ping(svc); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, settingsHint)
	}
	if svc == nil {
		return nil, nil
	}
	if err := ping(svc); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, settingsHint)
	}
	return svc, nil
}

// CreateAndValidateSpeechService creates a speech-to-text service and validates connectivity.
func CreateAndValidateSpeechService(settings *domain.SpeechSettings) (driven.SpeechToText, error) {
	svc, err := CreateSpeechService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrSpeechUnavailable, err, settingsHint)
	}
	if svc == nil {
		return nil, nil
	}
	if err := ping(svc); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrSpeechUnavailable, err, settingsHint)
	}
	return svc, nil
}

// ValidateEmbeddingConfig creates an embedding service from settings and pings it.
// Unconfigured settings are valid.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	return validate(asPinger(CreateEmbeddingService(settings)))
}

// ValidateLLMConfig creates an LLM service from settings and pings it.
// Unconfigured settings are valid.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	return validate(asPinger(CreateLLMService(settings)))
}

// ValidateSpeechConfig creates a speech-to-text service from settings and pings it.
// Unconfigured settings are valid.
func ValidateSpeechConfig(settings *domain.SpeechSettings) error {
	return validate(asPinger(CreateSpeechService(settings)))
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil
	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)
	case domain.AIProviderAnthropic:
		return nil, errors.New("anthropic does not support embeddings, use ollama or openai")
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateSpeechService creates the speech-to-text service based on settings.
// Returns nil if the provider is not configured.
func CreateSpeechService(settings *domain.SpeechSettings) (driven.SpeechToText, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaispeech.NewSpeechService(openaispeech.Config{
			APIKey:   settings.APIKey,
			BaseURL:  settings.BaseURL,
			Model:    settings.Model,
			Language: settings.Language,
		})
	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// pinger is the connectivity surface shared by all model services.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// asPinger adapts a typed constructor result, keeping nil interface values nil.
func asPinger[S pinger](svc S, err error) (pinger, error) {
	if err != nil {
		return nil, err
	}
	var p pinger = svc
	if p == nil {
		return nil, nil
	}
	return p, nil
}

func ping(svc pinger) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

func validate(svc pinger, err error) error {
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	return ping(svc)
}
