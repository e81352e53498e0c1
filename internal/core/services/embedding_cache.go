package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
)

// Ensure CachedEmbeddingService implements the interface.
var _ driven.EmbeddingService = (*CachedEmbeddingService)(nil)

// CachedEmbeddingService reads node embeddings from a persistent cache and
// only asks the provider for texts it has not seen with the same model.
// Cache failures are logged and fall through to the provider.
type CachedEmbeddingService struct {
	driven.EmbeddingService
	cache   driven.EmbeddingCache
	metrics *metrics.Metrics
}

// NewCachedEmbeddingService wraps inner with cache.
func NewCachedEmbeddingService(
	inner driven.EmbeddingService,
	cache driven.EmbeddingCache,
	m *metrics.Metrics,
) *CachedEmbeddingService {
	return &CachedEmbeddingService{EmbeddingService: inner, cache: cache, metrics: m}
}

// EmbedBatch returns one vector per text, in order.
func (s *CachedEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	model := s.ModelName()
	hashes := make([]string, len(texts))
	for i, t := range texts {
		hashes[i] = TranscriptKey(t)
	}

	cached, err := s.cache.GetEmbeddings(ctx, model, hashes)
	if err != nil {
		logger.Warn("embedding cache read failed: %v", err)
		cached = nil
	}

	results := make([][]float32, len(texts))
	var (
		missing   []string
		missingAt = make(map[string][]int)
	)
	for i, h := range hashes {
		if v, ok := cached[h]; ok {
			results[i] = v
			continue
		}
		if _, seen := missingAt[h]; !seen {
			missing = append(missing, texts[i])
		}
		missingAt[h] = append(missingAt[h], i)
	}

	s.metrics.RecordEmbeddingCache(len(texts)-countIndices(missingAt), countIndices(missingAt))
	if len(missing) == 0 {
		return results, nil
	}

	fresh, err := s.EmbeddingService.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("embedding provider returned %d vectors for %d texts", len(fresh), len(missing))
	}

	store := make(map[string][]float32, len(missing))
	for i, text := range missing {
		h := TranscriptKey(text)
		store[h] = fresh[i]
		for _, at := range missingAt[h] {
			results[at] = fresh[i]
		}
	}

	if err := s.cache.PutEmbeddings(ctx, model, store); err != nil {
		logger.Warn("embedding cache write failed: %v", err)
	}
	return results, nil
}

func countIndices(m map[string][]int) int {
	n := 0
	for _, v := range m {
		n += len(v)
	}
	return n
}
