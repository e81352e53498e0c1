// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is required to build the vector index of a transcript.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	// This is determined by the model and must match VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before serving requests.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingCache persists embeddings keyed by model and text hash so
// repeated transcripts do not pay for the same embedding twice.
type EmbeddingCache interface {
	// GetEmbeddings returns cached vectors for the given hashes.
	// Missing hashes are absent from the result map.
	GetEmbeddings(ctx context.Context, model string, hashes []string) (map[string][]float32, error)

	// PutEmbeddings stores vectors keyed by hash.
	PutEmbeddings(ctx context.Context, model string, vectors map[string][]float32) error

	// Close releases resources.
	Close() error
}
