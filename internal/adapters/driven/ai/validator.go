package ai

import (
	"fmt"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks model settings by building the service and pinging it.
// Failures name the provider and model so the settings wizard can show them.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if err := ValidateEmbeddingConfig(config); err != nil {
		return describe("embedding", config.Provider, config.Model, err)
	}
	return nil
}

// ValidateLLM pings the configured LLM provider.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if err := ValidateLLMConfig(config); err != nil {
		return describe("llm", config.Provider, config.Model, err)
	}
	return nil
}

// ValidateSpeech pings the configured speech-to-text provider.
func (v *ConfigValidator) ValidateSpeech(config *domain.SpeechSettings) error {
	if err := ValidateSpeechConfig(config); err != nil {
		return describe("speech", config.Provider, config.Model, err)
	}
	return nil
}

func describe(kind string, provider domain.AIProvider, model string, err error) error {
	if model == "" {
		return fmt.Errorf("%s provider %s: %w", kind, provider, err)
	}
	return fmt.Errorf("%s provider %s (model %s): %w", kind, provider, model, err)
}
