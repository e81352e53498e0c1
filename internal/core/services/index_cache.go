package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/sercha-audio/internal/logger"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
)

// Indices is the pair of indices built over one transcript.
// Callers of IndexCache.Get must call Release when done with them.
type Indices struct {
	Summary *SummaryIndex
	Vector  *VectorStoreIndex

	mu      sync.Mutex
	refs    int
	retired bool
	closed  bool
}

// acquire registers a caller. It fails once the indices have been closed.
func (i *Indices) acquire() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return false
	}
	i.refs++
	return true
}

// Release ends one caller's use. The vector index is closed when the
// indices have left the cache and no caller holds them.
func (i *Indices) Release() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.refs > 0 {
		i.refs--
	}
	i.closeIfIdle()
}

func (i *Indices) retire() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.retired = true
	i.closeIfIdle()
}

func (i *Indices) closeIfIdle() {
	if !i.retired || i.refs > 0 || i.closed {
		return
	}
	i.closed = true
	if i.Vector == nil {
		return
	}
	if err := i.Vector.Close(); err != nil {
		logger.Warn("closing vector index: %v", err)
	}
}

// IndexBuilder builds indices for transcript text.
type IndexBuilder interface {
	BuildIndices(ctx context.Context, text string) (*SummaryIndex, *VectorStoreIndex, error)
}

// IndexCache reuses indices for transcripts seen recently, keyed by the
// SHA-256 of the text. Concurrent requests for the same text share one build.
type IndexCache struct {
	builder IndexBuilder
	mu      sync.Mutex // guards lookups against eviction
	cache   *lru.Cache[string, *Indices]
	group   singleflight.Group
	metrics *metrics.Metrics
}

// NewIndexCache creates a cache holding up to size transcripts.
// A size of zero disables caching and every call builds afresh.
func NewIndexCache(builder IndexBuilder, size int, m *metrics.Metrics) (*IndexCache, error) {
	c := &IndexCache{builder: builder, metrics: m}
	if size < 0 {
		return nil, fmt.Errorf("index cache size must not be negative, got %d", size)
	}
	if size > 0 {
		cache, err := lru.NewWithEvict[string, *Indices](size, func(_ string, idx *Indices) {
			idx.retire()
		})
		if err != nil {
			return nil, fmt.Errorf("init index cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Get returns indices for text, building them on a miss. The caller must
// Release the result.
func (c *IndexCache) Get(ctx context.Context, text string) (*Indices, error) {
	if c.cache == nil {
		c.metrics.RecordIndexCache(false)
		idx, err := c.build(ctx, text)
		if err != nil {
			return nil, err
		}
		idx.retired = true
		idx.refs = 1
		return idx, nil
	}

	key := TranscriptKey(text)
	for {
		if idx, ok := c.lookup(key); ok {
			c.metrics.RecordIndexCache(true)
			return idx, nil
		}
		c.metrics.RecordIndexCache(false)

		// The shared build must not die with whichever caller started it.
		ch := c.group.DoChan(key, func() (any, error) {
			c.mu.Lock()
			idx, ok := c.cache.Get(key)
			c.mu.Unlock()
			if ok {
				return idx, nil
			}
			idx, err := c.build(context.WithoutCancel(ctx), text)
			if err != nil {
				return nil, err
			}
			c.mu.Lock()
			c.cache.Add(key, idx)
			c.mu.Unlock()
			return idx, nil
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			if idx := res.Val.(*Indices); idx.acquire() {
				return idx, nil
			}
			// Evicted and closed before this caller took hold; build again.
		}
	}
}

func (c *IndexCache) lookup(key string) (*Indices, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.cache.Get(key)
	if !ok || !idx.acquire() {
		return nil, false
	}
	return idx, true
}

// Len returns the number of cached transcripts.
func (c *IndexCache) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func (c *IndexCache) build(ctx context.Context, text string) (*Indices, error) {
	summary, vector, err := c.builder.BuildIndices(ctx, text)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordIndexBuild()
	logger.Debug("built indices over %d nodes", len(summary.Nodes()))
	return &Indices{Summary: summary, Vector: vector}, nil
}

// TranscriptKey returns the hex SHA-256 of text.
func TranscriptKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
