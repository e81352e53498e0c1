package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/config"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore persists settings as TOML tables. Dotted keys ("llm.provider")
// become nested tables on disk and are flattened again on load.
type ConfigStore struct {
	*config.Values

	writeMu  sync.Mutex
	filePath string
}

// NewConfigStore opens configDir/config.toml, creating the directory if needed.
// An empty configDir means ~/.sercha-audio.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".sercha-audio")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		Values:   config.NewValues(nil),
		filePath: filepath.Join(configDir, "config.toml"),
	}
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.filePath, err)
	}
	return s, nil
}

// Set writes the file with value applied and only then updates the table,
// so a value that cannot be encoded leaves both untouched.
func (s *ConfigStore) Set(key string, value any) error {
	if d, ok := value.(time.Duration); ok {
		value = d.String()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	next[key] = value
	if err := s.write(next); err != nil {
		return err
	}
	s.Put(key, value)
	return nil
}

// Save rewrites the file from the current table.
func (s *ConfigStore) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write(s.Snapshot())
}

// write encodes flat as nested TOML. The file may hold API keys, so it is
// owner-only.
func (s *ConfigStore) write(flat map[string]any) error {
	data, err := toml.Marshal(nestMap(flat))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Load re-reads the file. A missing file is an empty configuration.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.Replace(nil)
		return nil
	}
	if err != nil {
		return err
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return err
	}
	s.Replace(flattenMap(tree, ""))
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			maps.Copy(result, flattenMap(nested, fullKey))
			continue
		}
		result[fullKey] = value
	}

	return result
}

// nestMap is the inverse of flattenMap.
// Keys are visited in sorted order so a plain value always precedes keys
// that extend it; such keys are kept under their full dotted name.
func nestMap(flat map[string]any) map[string]any {
	keys := slices.Sorted(maps.Keys(flat))

	root := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := make(map[string]any)
				node[part] = next
				node = next
				continue
			}
			next, isMap := child.(map[string]any)
			if !isMap {
				node = nil
				break
			}
			node = next
		}
		if node == nil {
			root[key] = flat[key]
			continue
		}
		node[parts[len(parts)-1]] = flat[key]
	}

	return root
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
