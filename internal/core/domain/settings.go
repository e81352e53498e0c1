package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SpeechSettings holds speech-to-text provider configuration.
type SpeechSettings struct {
	// Provider is the speech-to-text service provider.
	// Only OpenAI-compatible transcription endpoints are supported.
	Provider AIProvider

	// Model is the transcription model name.
	Model string

	// BaseURL overrides the API endpoint, for self-hosted whisper servers.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// Language is an optional ISO-639-1 hint passed to the model.
	Language string
}

// IsConfigured returns true if the speech provider is set up.
// A BaseURL without an API key is accepted for self-hosted servers.
func (s SpeechSettings) IsConfigured() bool {
	if s.Provider != AIProviderOpenAI {
		return false
	}
	return s.APIKey != "" || s.BaseURL != ""
}

// TranscriptionSettings controls audio normalisation and chunking.
type TranscriptionSettings struct {
	// ChunkDuration is the length of each audio slice sent to the model.
	ChunkDuration time.Duration

	// FFmpegPath is the transcoder executable.
	FFmpegPath string
}

// IndexSettings controls transcript segmentation and querying.
type IndexSettings struct {
	// ChunkSize is the maximum tokens per document node.
	ChunkSize int

	// ChunkOverlap is the number of tokens of trailing sentences repeated
	// at the start of the next node.
	ChunkOverlap int

	// SimilarityTopK is the number of nodes retrieved by the vector engine.
	SimilarityTopK int

	// ContextWindow is the LLM context size in tokens used for prompt packing.
	ContextWindow int

	// NumOutput is the number of tokens reserved for the LLM response.
	NumOutput int

	// SummaryConcurrency bounds parallel LLM calls during tree summarisation.
	SummaryConcurrency int

	// CacheSize is the number of transcripts whose indices are kept.
	// Zero disables caching.
	CacheSize int

	// TokenEncoding is the tokenizer encoding used for counting.
	TokenEncoding string

	// Processors names the node processors run over a transcript, in order.
	Processors []string

	// PersistEmbeddings stores node embeddings on disk so a transcript seen
	// before is not embedded again.
	PersistEmbeddings bool
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RequestTimeout bounds the processing time of a single request.
	RequestTimeout time.Duration

	// MaxUploadBytes caps the request body size.
	MaxUploadBytes int64

	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64

	// RateBurst is the token bucket size.
	RateBurst int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Speech holds speech-to-text provider settings.
	Speech SpeechSettings

	// Transcription holds audio chunking settings.
	Transcription TranscriptionSettings

	// Index holds segmentation and retrieval settings.
	Index IndexSettings

	// Server holds HTTP server settings.
	Server ServerSettings
}

// Default tuning values.
const (
	DefaultChunkDuration      = 30 * time.Second
	DefaultChunkSize          = 1024
	DefaultChunkOverlap       = 200
	DefaultSimilarityTopK     = 2
	DefaultContextWindow      = 16384
	DefaultNumOutput          = 256
	DefaultSummaryConcurrency = 4
	DefaultCacheSize          = 16
	DefaultTokenEncoding      = "cl100k_base"
	DefaultServerAddr         = ":5004"
	DefaultRequestTimeout     = 5 * time.Minute
	DefaultMaxUploadBytes     = 64 << 20
	DefaultSpeechModel        = "whisper-1"
)

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{},
		LLM:       LLMSettings{},
		Speech: SpeechSettings{
			Model: DefaultSpeechModel,
		},
		Transcription: TranscriptionSettings{
			ChunkDuration: DefaultChunkDuration,
			FFmpegPath:    "ffmpeg",
		},
		Index: IndexSettings{
			ChunkSize:          DefaultChunkSize,
			ChunkOverlap:       DefaultChunkOverlap,
			SimilarityTopK:     DefaultSimilarityTopK,
			ContextWindow:      DefaultContextWindow,
			NumOutput:          DefaultNumOutput,
			SummaryConcurrency: DefaultSummaryConcurrency,
			CacheSize:          DefaultCacheSize,
			TokenEncoding:      DefaultTokenEncoding,
			Processors:         []string{"splitter", "trim"},
			PersistEmbeddings:  true,
		},
		Server: ServerSettings{
			Addr:           DefaultServerAddr,
			RequestTimeout: DefaultRequestTimeout,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
