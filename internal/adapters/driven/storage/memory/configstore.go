package memory

import (
	"maps"

	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/config"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in memory only. It backs --ephemeral runs,
// where nothing may be written to disk, and tests.
type ConfigStore struct {
	*config.Values
}

// NewConfigStore creates a store seeded with dot-notation keys.
func NewConfigStore(seed ...map[string]any) *ConfigStore {
	merged := make(map[string]any)
	for _, m := range seed {
		maps.Copy(merged, m)
	}
	return &ConfigStore{Values: config.NewValues(merged)}
}

// Set stores a value. It never fails.
func (s *ConfigStore) Set(key string, value any) error {
	s.Put(key, value)
	return nil
}

// Save is a no-op.
func (s *ConfigStore) Save() error { return nil }

// Load is a no-op.
func (s *ConfigStore) Load() error { return nil }

// Path returns ":memory:".
func (s *ConfigStore) Path() string { return ":memory:" }
