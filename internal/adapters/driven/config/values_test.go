package config

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValues_TypedGetters(t *testing.T) {
	v := NewValues(map[string]any{
		"str":      "hello",
		"int":      7,
		"int64":    int64(8),
		"whole":    3.0,
		"frac":     1.5,
		"bool":     true,
		"slice":    []any{"a", 1, "b"},
		"strslice": []string{"x"},
		"durstr":   "1m",
		"dursecs":  int64(5),
		"durfloat": 0.25,
	})

	assert.Equal(t, "hello", v.GetString("str"))
	assert.Equal(t, "", v.GetString("int"))
	assert.Equal(t, 7, v.GetInt("int"))
	assert.Equal(t, 8, v.GetInt("int64"))
	assert.Equal(t, 3, v.GetInt("whole"))
	assert.Equal(t, 0, v.GetInt("frac"))
	assert.Equal(t, 0, v.GetInt("str"))
	assert.Equal(t, 1.5, v.GetFloat("frac"))
	assert.Equal(t, 7.0, v.GetFloat("int"))
	assert.Equal(t, 0.0, v.GetFloat("bool"))
	assert.True(t, v.GetBool("bool"))
	assert.False(t, v.GetBool("str"))
	assert.Equal(t, []string{"a", "b"}, v.GetStringSlice("slice"))
	assert.Equal(t, []string{"x"}, v.GetStringSlice("strslice"))
	assert.Nil(t, v.GetStringSlice("str"))
	assert.Equal(t, time.Minute, v.GetDuration("durstr"))
	assert.Equal(t, 5*time.Second, v.GetDuration("dursecs"))
	assert.Equal(t, 250*time.Millisecond, v.GetDuration("durfloat"))
	assert.Equal(t, time.Duration(0), v.GetDuration("str"))
	assert.Equal(t, time.Duration(0), v.GetDuration("missing"))
}

func TestValues_PutStoresDurationsAsStrings(t *testing.T) {
	v := NewValues(nil)
	v.Put("transcription.chunk_duration", 45*time.Second)

	assert.Equal(t, "45s", v.GetString("transcription.chunk_duration"))
	assert.Equal(t, 45*time.Second, v.GetDuration("transcription.chunk_duration"))
}

func TestValues_SnapshotIsACopy(t *testing.T) {
	seed := map[string]any{"a": 1}
	v := NewValues(seed)
	seed["a"] = 2

	snap := v.Snapshot()
	snap["a"] = 3

	assert.Equal(t, 1, v.GetInt("a"))

	v.Replace(nil)
	_, ok := v.Get("a")
	assert.False(t, ok)
}

func TestValues_Concurrency(t *testing.T) {
	v := NewValues(nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.Put("server.rate_burst", i)
		}()
		go func() {
			defer wg.Done()
			_ = v.GetInt("server.rate_burst")
		}()
	}
	wg.Wait()

	_, ok := v.Get("server.rate_burst")
	assert.True(t, ok)
}
