package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}

func TestNewConfigStore_Seeded(t *testing.T) {
	seed := map[string]any{"llm.provider": "ollama"}
	store := NewConfigStore(seed)

	assert.Equal(t, "ollama", store.GetString("llm.provider"))

	require.NoError(t, store.Set("llm.provider", "openai"))
	assert.Equal(t, "ollama", seed["llm.provider"], "seed map must not be shared")
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Durations(t *testing.T) {
	store := NewConfigStore(map[string]any{"transcription.chunk_duration": 30 * time.Second})
	assert.Equal(t, 30*time.Second, store.GetDuration("transcription.chunk_duration"))

	require.NoError(t, store.Set("server.request_timeout", 2*time.Minute))
	assert.Equal(t, "2m0s", store.GetString("server.request_timeout"))
	assert.Equal(t, 2*time.Minute, store.GetDuration("server.request_timeout"))
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
