package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMAPIKey          = "llm.api_key"
	keySpeechProvider     = "speech.provider"
	keySpeechModel        = "speech.model"
	keySpeechBaseURL      = "speech.base_url"
	keySpeechAPIKey       = "speech.api_key"
	keySpeechLanguage     = "speech.language"
	keyChunkDuration      = "transcription.chunk_duration"
	keyFFmpegPath         = "transcription.ffmpeg_path"
	keyChunkSize          = "index.chunk_size"
	keyChunkOverlap       = "index.chunk_overlap"
	keySimilarityTopK     = "index.similarity_top_k"
	keyContextWindow      = "index.context_window"
	keyNumOutput          = "index.num_output"
	keySummaryConcurrency = "index.summary_concurrency"
	keyCacheSize          = "index.cache_size"
	keyTokenEncoding      = "index.token_encoding"
	keyProcessors         = "index.processors"
	keyPersistEmbeddings  = "index.persist_embeddings"
	keyServerAddr         = "server.addr"
	keyRequestTimeout     = "server.request_timeout"
	keyMaxUploadBytes     = "server.max_upload_bytes"
	keyRateLimit          = "server.rate_limit"
	keyRateBurst          = "server.rate_burst"
)

// Environment variables consulted when an EnvLookup is configured.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvServerAddr      = "SERCHA_AUDIO_ADDR"
	EnvFFmpegPath      = "FFMPEG_PATH"
)

// EnvLookup reads an environment variable.
type EnvLookup func(key string) (string, bool)

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnvLookup makes Get fill API keys and a few server settings from the
// environment. Values from the config file take precedence for API keys;
// SERCHA_AUDIO_ADDR and FFMPEG_PATH override the file.
func WithEnvLookup(lookup EnvLookup) SettingsOption {
	return func(s *SettingsService) {
		s.env = lookup
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	env         EnvLookup
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	opts ...SettingsOption,
) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, d.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:    s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Speech: domain.SpeechSettings{
			Provider: s.getProvider(keySpeechProvider, d.Speech.Provider),
			Model:    s.getString(keySpeechModel, d.Speech.Model),
			BaseURL:  s.configStore.GetString(keySpeechBaseURL),
			APIKey:   s.configStore.GetString(keySpeechAPIKey),
			Language: s.configStore.GetString(keySpeechLanguage),
		},
		Transcription: domain.TranscriptionSettings{
			ChunkDuration: s.getDuration(keyChunkDuration, d.Transcription.ChunkDuration),
			FFmpegPath:    s.getString(keyFFmpegPath, d.Transcription.FFmpegPath),
		},
		Index: domain.IndexSettings{
			ChunkSize:          s.getInt(keyChunkSize, d.Index.ChunkSize),
			ChunkOverlap:       s.getInt(keyChunkOverlap, d.Index.ChunkOverlap),
			SimilarityTopK:     s.getInt(keySimilarityTopK, d.Index.SimilarityTopK),
			ContextWindow:      s.getInt(keyContextWindow, d.Index.ContextWindow),
			NumOutput:          s.getInt(keyNumOutput, d.Index.NumOutput),
			SummaryConcurrency: s.getInt(keySummaryConcurrency, d.Index.SummaryConcurrency),
			CacheSize:          s.getInt(keyCacheSize, d.Index.CacheSize),
			TokenEncoding:      s.getString(keyTokenEncoding, d.Index.TokenEncoding),
			Processors:         s.getStringSlice(keyProcessors, d.Index.Processors),
			PersistEmbeddings:  s.getBool(keyPersistEmbeddings, d.Index.PersistEmbeddings),
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, d.Server.Addr),
			RequestTimeout: s.getDuration(keyRequestTimeout, d.Server.RequestTimeout),
			MaxUploadBytes: int64(s.getInt(keyMaxUploadBytes, int(d.Server.MaxUploadBytes))),
			RateLimit:      s.getFloat(keyRateLimit, d.Server.RateLimit),
			RateBurst:      s.getInt(keyRateBurst, d.Server.RateBurst),
		},
	}

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv fills missing API keys and environment-level overrides.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if s.env == nil {
		return
	}

	keyFor := func(p domain.AIProvider) string {
		var name string
		switch p {
		case domain.AIProviderOpenAI:
			name = EnvOpenAIAPIKey
		case domain.AIProviderAnthropic:
			name = EnvAnthropicAPIKey
		default:
			return ""
		}
		v, _ := s.env(name)
		return v
	}

	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = keyFor(settings.LLM.Provider)
	}
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = keyFor(settings.Embedding.Provider)
	}
	if settings.Speech.APIKey == "" {
		settings.Speech.APIKey = keyFor(settings.Speech.Provider)
	}
	if v, ok := s.env(EnvServerAddr); ok && v != "" {
		settings.Server.Addr = v
	}
	if v, ok := s.env(EnvFFmpegPath); ok && v != "" {
		settings.Transcription.FFmpegPath = v
	}
}

// Save persists application settings.
// Empty API keys are not written so keys supplied by the environment stay there.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key string
		val any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keySpeechProvider, settings.Speech.Provider.String()},
		{keySpeechModel, settings.Speech.Model},
		{keySpeechBaseURL, settings.Speech.BaseURL},
		{keySpeechLanguage, settings.Speech.Language},
		{keyChunkDuration, settings.Transcription.ChunkDuration.String()},
		{keyFFmpegPath, settings.Transcription.FFmpegPath},
		{keyChunkSize, settings.Index.ChunkSize},
		{keyChunkOverlap, settings.Index.ChunkOverlap},
		{keySimilarityTopK, settings.Index.SimilarityTopK},
		{keyContextWindow, settings.Index.ContextWindow},
		{keyNumOutput, settings.Index.NumOutput},
		{keySummaryConcurrency, settings.Index.SummaryConcurrency},
		{keyCacheSize, settings.Index.CacheSize},
		{keyTokenEncoding, settings.Index.TokenEncoding},
		{keyProcessors, settings.Index.Processors},
		{keyPersistEmbeddings, settings.Index.PersistEmbeddings},
		{keyServerAddr, settings.Server.Addr},
		{keyRequestTimeout, settings.Server.RequestTimeout.String()},
		{keyMaxUploadBytes, settings.Server.MaxUploadBytes},
		{keyRateLimit, settings.Server.RateLimit},
		{keyRateBurst, settings.Server.RateBurst},
	}
	for _, kv := range values {
		if err := s.configStore.Set(kv.key, kv.val); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}

	secrets := []struct {
		key string
		val string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keySpeechAPIKey, settings.Speech.APIKey},
	}
	for _, kv := range secrets {
		if kv.val == "" {
			continue
		}
		if err := s.configStore.Set(kv.key, kv.val); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetSpeechProvider configures the speech-to-text provider.
// baseURL points at an OpenAI-compatible server; with it the API key is optional.
func (s *SettingsService) SetSpeechProvider(provider domain.AIProvider, model, apiKey, baseURL string) error {
	if provider != domain.AIProviderOpenAI {
		return fmt.Errorf("provider %s does not support speech-to-text", provider)
	}
	if apiKey == "" && baseURL == "" {
		return fmt.Errorf("API key or base URL required for %s speech-to-text", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Speech.Provider = provider
	settings.Speech.Model = modelOrDefault(model, domain.DefaultSpeechModel)
	settings.Speech.BaseURL = baseURL
	settings.Speech.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that every provider the pipeline needs is configured and
// that the tuning values are usable. All problems are reported together.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Speech.IsConfigured() {
		errs = append(errs, errors.New("transcription requires a speech-to-text provider to be configured"))
	}
	if !settings.LLM.IsConfigured() {
		errs = append(errs, errors.New("chat requires an LLM provider to be configured"))
	}
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, errors.New("chat requires an embedding provider to be configured"))
	}

	idx := settings.Index
	if idx.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", keyChunkSize, idx.ChunkSize))
	}
	if idx.ChunkOverlap < 0 || idx.ChunkOverlap >= idx.ChunkSize {
		errs = append(errs, fmt.Errorf("%s must be in [0, %s), got %d", keyChunkOverlap, keyChunkSize, idx.ChunkOverlap))
	}
	if idx.SimilarityTopK < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", keySimilarityTopK, idx.SimilarityTopK))
	}
	if idx.ContextWindow <= idx.NumOutput {
		errs = append(errs, fmt.Errorf("%s must exceed %s", keyContextWindow, keyNumOutput))
	}
	if settings.Transcription.ChunkDuration <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", keyChunkDuration))
	}

	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// ValidateSpeechConfig validates the current speech configuration by pinging the provider.
func (s *SettingsService) ValidateSpeechConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateSpeech(&settings.Speech)
}

// Helper methods for reading config with defaults.
// Numeric keys that are present are used even when zero.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if d := s.configStore.GetDuration(key); d > 0 {
		return d
	}
	return defaultVal
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if v := s.configStore.GetStringSlice(key); len(v) > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func modelOrDefault(model, def string) string {
	if model != "" {
		return model
	}
	return def
}

// baseURLFor keeps a configured URL for local providers and clears it for cloud ones.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}
