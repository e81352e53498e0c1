package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an exact in-memory cosine similarity index.
// Vectors are normalised on insert so search is a dot product.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	ids        []string
	vectors    [][]float32
	position   map[string]int
}

// NewVectorIndex creates an empty index. A dimensions value of zero
// adopts the size of the first inserted vector.
func NewVectorIndex(dimensions int) *VectorIndex {
	return &VectorIndex{
		dimensions: dimensions,
		position:   make(map[string]int),
	}
}

// Add inserts or replaces the vector for a node.
func (v *VectorIndex) Add(_ context.Context, nodeID string, embedding []float32) error {
	if nodeID == "" {
		return fmt.Errorf("%w: empty node ID", domain.ErrInvalidInput)
	}
	normalised, err := normalise(embedding)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dimensions == 0 {
		v.dimensions = len(embedding)
	}
	if len(embedding) != v.dimensions {
		return fmt.Errorf("%w: vector has %d dimensions, index expects %d", domain.ErrInvalidInput, len(embedding), v.dimensions)
	}

	if i, ok := v.position[nodeID]; ok {
		v.vectors[i] = normalised
		return nil
	}
	v.position[nodeID] = len(v.ids)
	v.ids = append(v.ids, nodeID)
	v.vectors = append(v.vectors, normalised)
	return nil
}

// Delete removes a node's vector. Deleting an unknown node is a no-op.
func (v *VectorIndex) Delete(_ context.Context, nodeID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	i, ok := v.position[nodeID]
	if !ok {
		return nil
	}
	delete(v.position, nodeID)
	v.ids = append(v.ids[:i], v.ids[i+1:]...)
	v.vectors = append(v.vectors[:i], v.vectors[i+1:]...)
	for j := i; j < len(v.ids); j++ {
		v.position[v.ids[j]] = j
	}
	return nil
}

// Search returns the k most similar nodes by cosine similarity.
// Ties keep insertion order.
func (v *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	q, err := normalise(query)
	if err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.ids) == 0 {
		return nil, nil
	}
	if len(query) != v.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d", domain.ErrInvalidInput, len(query), v.dimensions)
	}

	hits := make([]driven.VectorHit, len(v.ids))
	for i, vec := range v.vectors {
		hits[i] = driven.VectorHit{NodeID: v.ids[i], Similarity: dot(q, vec)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.ids)
}

// Close releases the stored vectors.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ids = nil
	v.vectors = nil
	v.position = make(map[string]int)
	return nil
}

func normalise(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector", domain.ErrInvalidInput)
	}
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	if norm == 0 {
		return out, nil
	}
	for i, x := range vec {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
