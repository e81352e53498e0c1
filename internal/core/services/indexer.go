package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// VectorIndexFactory creates an empty vector index for one transcript.
type VectorIndexFactory func(dimensions int) driven.VectorIndex

// Indexer segments transcript text into nodes and builds the summary and
// vector indices over them.
type Indexer struct {
	pipeline       driven.NodePipeline
	embeddings     driven.EmbeddingService
	newVectorIndex VectorIndexFactory
	synth          *Synthesizer
	topK           int
}

// NewIndexer creates an indexer. topK is the number of nodes the vector
// engine retrieves per question.
func NewIndexer(
	pipeline driven.NodePipeline,
	embeddings driven.EmbeddingService,
	newVectorIndex VectorIndexFactory,
	synth *Synthesizer,
	topK int,
) *Indexer {
	if topK <= 0 {
		topK = domain.DefaultSimilarityTopK
	}
	return &Indexer{
		pipeline:       pipeline,
		embeddings:     embeddings,
		newVectorIndex: newVectorIndex,
		synth:          synth,
		topK:           topK,
	}
}

// BuildIndices segments text and builds both indices over the same nodes.
func (ix *Indexer) BuildIndices(ctx context.Context, text string) (*SummaryIndex, *VectorStoreIndex, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, &domain.EmptyTranscriptError{}
	}
	if ix.embeddings == nil {
		return nil, nil, domain.ErrEmbeddingUnavailable
	}

	nodes, err := ix.pipeline.Process(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("segment transcript: %w", err)
	}
	if len(nodes) == 0 {
		return nil, nil, &domain.EmptyTranscriptError{}
	}
	logger.Debug("segmented transcript into %d nodes", len(nodes))

	vector, err := ix.buildVectorIndex(ctx, nodes)
	if err != nil {
		return nil, nil, err
	}

	summary := &SummaryIndex{nodes: nodes, synth: ix.synth}
	return summary, vector, nil
}

func (ix *Indexer) buildVectorIndex(ctx context.Context, nodes []domain.DocumentNode) (*VectorStoreIndex, error) {
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = n.Text
	}

	vectors, err := ix.embeddings.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed nodes: %w", err)
	}
	if len(vectors) != len(nodes) {
		return nil, fmt.Errorf("embed nodes: got %d vectors for %d nodes", len(vectors), len(nodes))
	}

	// Models missing from the known-dimensions table report a guess, so the
	// index is sized from what the model actually returned.
	dims := len(vectors[0])
	if advertised := ix.embeddings.Dimensions(); advertised != dims {
		logger.Debug("embedding model %s returned %d dimensions, configured for %d",
			ix.embeddings.ModelName(), dims, advertised)
	}

	index := ix.newVectorIndex(dims)
	byID := make(map[string]domain.DocumentNode, len(nodes))
	for i, n := range nodes {
		if err := index.Add(ctx, n.ID, vectors[i]); err != nil {
			_ = index.Close()
			// %v: a bad vector is a model fault, never the caller's input.
			return nil, fmt.Errorf("index node %d: %v", n.Index, err)
		}
		byID[n.ID] = n
	}

	return &VectorStoreIndex{
		nodes:      byID,
		index:      index,
		embeddings: ix.embeddings,
		synth:      ix.synth,
		topK:       ix.topK,
	}, nil
}

// SummaryIndex holds every node of a transcript in order.
type SummaryIndex struct {
	nodes []domain.DocumentNode
	synth *Synthesizer
}

// Nodes returns the indexed nodes in transcript order.
func (s *SummaryIndex) Nodes() []domain.DocumentNode {
	return s.nodes
}

// QueryEngine answers questions by tree-summarising every node.
func (s *SummaryIndex) QueryEngine() driven.QueryEngine {
	return summaryEngine{index: s}
}

type summaryEngine struct {
	index *SummaryIndex
}

func (e summaryEngine) Query(ctx context.Context, question string) (string, error) {
	texts := make([]string, len(e.index.nodes))
	for i, n := range e.index.nodes {
		texts[i] = n.Text
	}
	return e.index.synth.TreeSummarize(ctx, question, texts)
}

// VectorStoreIndex holds node embeddings for similarity retrieval.
type VectorStoreIndex struct {
	nodes      map[string]domain.DocumentNode
	index      driven.VectorIndex
	embeddings driven.EmbeddingService
	synth      *Synthesizer
	topK       int
}

// Len returns the number of indexed nodes.
func (v *VectorStoreIndex) Len() int {
	return v.index.Len()
}

// Retrieve returns the nodes most similar to the question, best first.
func (v *VectorStoreIndex) Retrieve(ctx context.Context, question string) ([]domain.ScoredNode, error) {
	query, err := v.embeddings.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := v.index.Search(ctx, query, v.topK)
	if err != nil {
		return nil, fmt.Errorf("search vectors: %v", err)
	}

	scored := make([]domain.ScoredNode, 0, len(hits))
	for _, h := range hits {
		n, ok := v.nodes[h.NodeID]
		if !ok {
			continue
		}
		scored = append(scored, domain.ScoredNode{Node: n, Score: h.Similarity})
	}
	return scored, nil
}

// QueryEngine answers questions from the top-K retrieved nodes.
func (v *VectorStoreIndex) QueryEngine() driven.QueryEngine {
	return vectorEngine{index: v}
}

// Close releases the underlying vector index.
func (v *VectorStoreIndex) Close() error {
	return v.index.Close()
}

type vectorEngine struct {
	index *VectorStoreIndex
}

func (e vectorEngine) Query(ctx context.Context, question string) (string, error) {
	scored, err := e.index.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	if len(scored) == 0 {
		return "", fmt.Errorf("%w: no nodes retrieved", domain.ErrNotFound)
	}

	texts := make([]string, len(scored))
	for i, s := range scored {
		texts[i] = s.Node.Text
		logger.Debug("retrieved node %d (score %.3f)", s.Node.Index, s.Score)
	}
	return e.index.synth.Compact(ctx, question, texts)
}
