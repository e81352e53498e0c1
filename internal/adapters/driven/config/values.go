// Package config holds the flat key/value table shared by the config store
// adapters. Keys are dot-separated ("server.rate_limit") and values keep
// whatever type the backing format decoded them as; the typed getters coerce.
package config

import (
	"maps"
	"math"
	"sync"
	"time"
)

// Values is a concurrency-safe flat configuration table.
type Values struct {
	mu sync.RWMutex
	m  map[string]any
}

// NewValues returns a table holding a copy of seed.
func NewValues(seed map[string]any) *Values {
	v := &Values{m: make(map[string]any, len(seed))}
	maps.Copy(v.m, seed)
	return v
}

// Get returns the raw value stored under key.
func (v *Values) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.m[key]
	return val, ok
}

// Put stores value under key. Durations are stored in their string form so
// every backend round-trips them the same way.
func (v *Values) Put(key string, value any) {
	if d, ok := value.(time.Duration); ok {
		value = d.String()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[key] = value
}

// Replace swaps the whole table, e.g. after re-reading a file.
func (v *Values) Replace(m map[string]any) {
	if m == nil {
		m = make(map[string]any)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m = m
}

// Snapshot returns a copy of the table.
func (v *Values) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.m)
}

// GetString returns the value if it is a string.
func (v *Values) GetString(key string) string {
	val, _ := v.Get(key)
	s, _ := val.(string)
	return s
}

// GetBool returns the value if it is a bool.
func (v *Values) GetBool(key string) bool {
	val, _ := v.Get(key)
	b, _ := val.(bool)
	return b
}

// GetInt returns integer values and whole floats. Fractions yield 0.
func (v *Values) GetInt(key string) int {
	val, _ := v.Get(key)
	switch n := val.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	}
	return 0
}

// GetFloat returns numeric values, widening integers.
func (v *Values) GetFloat(key string) float64 {
	val, _ := v.Get(key)
	switch n := val.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// GetDuration accepts Go duration strings ("30s") or numbers of seconds.
// Unparseable values yield 0.
func (v *Values) GetDuration(key string) time.Duration {
	val, _ := v.Get(key)
	switch d := val.(type) {
	case time.Duration:
		return d
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0
		}
		return parsed
	case int:
		return time.Duration(d) * time.Second
	case int64:
		return time.Duration(d) * time.Second
	case float64:
		return time.Duration(d * float64(time.Second))
	}
	return 0
}

// GetStringSlice returns string arrays. Non-string elements of a decoded
// []any are skipped.
func (v *Values) GetStringSlice(key string) []string {
	val, _ := v.Get(key)
	switch s := val.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
