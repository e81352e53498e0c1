package driving

import "github.com/custodia-labs/sercha-audio/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetSpeechProvider configures the speech-to-text provider.
	SetSpeechProvider(provider domain.AIProvider, model, apiKey, baseURL string) error

	// Validate checks that every provider the chat pipeline needs is configured.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error

	// ValidateSpeechConfig validates the current speech configuration by pinging the provider.
	ValidateSpeechConfig() error
}
