package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "openai"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "openai", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_SetRejectsUnencodableValueWithoutApplyingIt(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "gpt-4o"))

	assert.Error(t, store.Set("llm.callback", func() {}))

	_, ok := store.Get("llm.callback")
	assert.False(t, ok)
	assert.NoError(t, store.Save(), "a rejected value must not poison later saves")
}

func TestConfigStore_GetDuration(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a", "45s"))
	require.NoError(t, store.Set("b", 30))
	require.NoError(t, store.Set("c", 2*time.Minute))
	require.NoError(t, store.Set("d", "soon"))

	assert.Equal(t, 45*time.Second, store.GetDuration("a"))
	assert.Equal(t, 30*time.Second, store.GetDuration("b"))
	assert.Equal(t, 2*time.Minute, store.GetDuration("c"))
	assert.Equal(t, time.Duration(0), store.GetDuration("d"))
	assert.Equal(t, time.Duration(0), store.GetDuration("missing"))

	// Durations are persisted as strings.
	assert.Equal(t, "2m0s", store.GetString("c"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("index.chunk_size", 512))
	require.NoError(t, store.Set("server.rate_limit", 2.5))
	require.NoError(t, store.Set("transcription.chunk_duration", "20s"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", reopened.GetString("llm.provider"))
	assert.Equal(t, 512, reopened.GetInt("index.chunk_size"))
	assert.Equal(t, 2.5, reopened.GetFloat("server.rate_limit"))
	assert.Equal(t, 20*time.Second, reopened.GetDuration("transcription.chunk_duration"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("llm.model", "llama3"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]")
	assert.Regexp(t, `provider = ['"]ollama['"]`, string(data))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[speech]
provider = "openai"
model = "whisper-1"

[index]
similarity_top_k = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("speech.provider"))
	assert.Equal(t, "whisper-1", store.GetString("speech.model"))
	assert.Equal(t, 3, store.GetInt("index.similarity_top_k"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("speech.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("server.rate_burst", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("server.rate_burst")
		}()
	}
	wg.Wait()

	_, ok := store.Get("server.rate_burst")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"llm.provider": "openai",
		"llm.model":    "gpt-4o",
		"top":          1,
		"a":            "scalar",
		"a.b":          "conflict",
	})

	assert.Equal(t, map[string]any{"provider": "openai", "model": "gpt-4o"}, nested["llm"])
	assert.Equal(t, 1, nested["top"])
	assert.Equal(t, "scalar", nested["a"])
	assert.Equal(t, "conflict", nested["a.b"])

	assert.Equal(t, map[string]any{
		"llm.provider": "openai",
		"llm.model":    "gpt-4o",
		"top":          1,
		"a":            "scalar",
		"a.b":          "conflict",
	}, flattenMap(nested, ""))
}
