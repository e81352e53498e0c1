package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider(t *testing.T) {
	tests := []struct {
		provider    AIProvider
		valid       bool
		needsKey    bool
		local       bool
		description string
	}{
		{AIProviderOllama, true, false, true, "Ollama (local)"},
		{AIProviderOpenAI, true, true, false, "OpenAI (cloud)"},
		{AIProviderAnthropic, true, true, false, "Anthropic (cloud)"},
		{AIProvider("whisper"), false, false, false, "Unknown"},
		{AIProvider(""), false, false, false, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.needsKey, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.local, tt.provider.IsLocal())
			assert.Equal(t, tt.description, tt.provider.Description())
			assert.Equal(t, string(tt.provider), tt.provider.String())
		})
	}
}

// Embedding and LLM settings share the same rule: a valid provider, plus a
// key when the provider is a cloud API.
func TestModelSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		apiKey   string
		want     bool
	}{
		{"ollama without key", AIProviderOllama, "", true},
		{"openai with key", AIProviderOpenAI, "sk-test", true},
		{"openai without key", AIProviderOpenAI, "", false},
		{"anthropic with key", AIProviderAnthropic, "sk-ant-test", true},
		{"anthropic without key", AIProviderAnthropic, "", false},
		{"unknown provider", AIProvider("invalid"), "key", false},
		{"empty provider", AIProvider(""), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := LLMSettings{Provider: tt.provider, Model: "m", APIKey: tt.apiKey}
			assert.Equal(t, tt.want, llm.IsConfigured())

			if tt.provider == AIProviderAnthropic {
				return
			}
			emb := EmbeddingSettings{Provider: tt.provider, Model: "m", APIKey: tt.apiKey}
			assert.Equal(t, tt.want, emb.IsConfigured())
		})
	}
}

func TestSpeechSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings SpeechSettings
		expected bool
	}{
		{"openai with key", SpeechSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"openai self-hosted without key", SpeechSettings{Provider: AIProviderOpenAI, BaseURL: "http://localhost:8000/v1"}, true},
		{"openai without key or url", SpeechSettings{Provider: AIProviderOpenAI}, false},
		{"ollama not supported", SpeechSettings{Provider: AIProviderOllama, BaseURL: "http://localhost:11434"}, false},
		{"empty settings", SpeechSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
	assert.False(t, settings.Speech.IsConfigured())
	assert.Equal(t, "whisper-1", settings.Speech.Model)

	assert.Equal(t, 30*time.Second, settings.Transcription.ChunkDuration)
	assert.Equal(t, "ffmpeg", settings.Transcription.FFmpegPath)

	assert.Equal(t, 1024, settings.Index.ChunkSize)
	assert.Equal(t, 200, settings.Index.ChunkOverlap)
	assert.Equal(t, 2, settings.Index.SimilarityTopK)
	assert.Positive(t, settings.Index.ContextWindow)
	assert.Positive(t, settings.Index.SummaryConcurrency)
	assert.Equal(t, "cl100k_base", settings.Index.TokenEncoding)

	assert.Equal(t, ":5004", settings.Server.Addr)
	assert.Equal(t, 5*time.Minute, settings.Server.RequestTimeout)
	assert.Equal(t, int64(64<<20), settings.Server.MaxUploadBytes)
}

func TestAllEmbeddingProviders(t *testing.T) {
	providers := AllEmbeddingProviders()

	require.Len(t, providers, 2)
	assert.Contains(t, providers, AIProviderOllama)
	assert.Contains(t, providers, AIProviderOpenAI)
	assert.NotContains(t, providers, AIProviderAnthropic, "Anthropic should not be in embedding providers")
}

func TestAllLLMProviders(t *testing.T) {
	providers := AllLLMProviders()

	require.Len(t, providers, 3)
	for _, provider := range providers {
		assert.True(t, provider.IsValid(), "Provider %s should be valid", provider)
	}
}

func TestDefaultModels(t *testing.T) {
	assert.Equal(t, "text-embedding-3-small", DefaultEmbeddingModels()[AIProviderOpenAI])
	assert.Equal(t, "gpt-4o", DefaultLLMModels()[AIProviderOpenAI])
	assert.Equal(t, 1536, EmbeddingDimensions()["text-embedding-3-small"])
}
