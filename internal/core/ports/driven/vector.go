package driven

import "context"

// VectorIndex provides semantic similarity search over document nodes.
// Each transcript gets its own index instance.
type VectorIndex interface {
	// Add inserts a vector for the given node ID.
	Add(ctx context.Context, nodeID string, embedding []float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, nodeID string) error

	// Search finds the k nearest neighbours to the query vector,
	// ordered by descending similarity.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// NodeID is the matched node.
	NodeID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
