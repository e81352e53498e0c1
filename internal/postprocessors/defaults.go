package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/postprocessors/splitter"
	"github.com/custodia-labs/sercha-audio/internal/postprocessors/trim"
)

// DefaultProcessors is the pipeline used when none is configured.
var DefaultProcessors = []string{splitter.Name, trim.Name}

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(splitter.Name, buildSplitter)
	r.Register(trim.Name, buildTrim)
}

// buildSplitter creates a sentence splitter from generic config.
// Supported config keys:
//   - chunk_size (int): Maximum tokens per node (default: 1024)
//   - chunk_overlap (int): Overlapping tokens between nodes (default: 200)
func buildSplitter(deps Deps, cfg map[string]any) (driven.NodeProcessor, error) {
	if deps.Tokens == nil {
		return nil, fmt.Errorf("splitter requires a token counter")
	}

	var opts []splitter.Option
	if v, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, splitter.WithChunkSize(v))
	}
	if v, ok := getIntFromConfig(cfg, "chunk_overlap"); ok {
		opts = append(opts, splitter.WithOverlap(v))
	}

	return splitter.New(deps.Tokens, opts...), nil
}

func buildTrim(deps Deps, _ map[string]any) (driven.NodeProcessor, error) {
	return trim.New(deps.Tokens), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
