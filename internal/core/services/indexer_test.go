package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/postprocessors"
	"github.com/custodia-labs/sercha-audio/internal/postprocessors/splitter"
	"github.com/custodia-labs/sercha-audio/internal/postprocessors/trim"
)

const meetingText = "Apples are red and sweet. We discussed apples at length today. " +
	"The budget was approved by the board. Budget numbers increase next year."

func newVectorIndex(dimensions int) driven.VectorIndex {
	return memory.NewVectorIndex(dimensions)
}

func newTestIndexer(answerer driven.Answerer, embeddings driven.EmbeddingService) *Indexer {
	pipeline := postprocessors.NewPipeline(
		splitter.New(wordCounter{}, splitter.WithChunkSize(12), splitter.WithOverlap(0)),
		trim.New(wordCounter{}),
	)
	synth := NewSynthesizer(answerer, stubPrompts{}, wordCounter{}, SynthesizerConfig{})
	return NewIndexer(pipeline, embeddings, newVectorIndex, synth, 1)
}

func TestIndexer_BuildIndices(t *testing.T) {
	embeddings := &keywordEmbeddings{keywords: []string{"apple", "budget"}}
	ix := newTestIndexer(&funcAnswerer{}, embeddings)

	summary, vector, err := ix.BuildIndices(context.Background(), meetingText)
	require.NoError(t, err)

	nodes := summary.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "Apples are red and sweet. We discussed apples at length today.", nodes[0].Text)
	assert.Equal(t, "The budget was approved by the board. Budget numbers increase next year.", nodes[1].Text)
	for i, n := range nodes {
		assert.Equal(t, i, n.Index)
		assert.NotEmpty(t, n.ID)
		assert.LessOrEqual(t, n.Tokens, 12)
	}

	assert.Equal(t, 2, vector.Len(), "both indices share the same nodes")
	assert.Equal(t, 1, embeddings.batchCount())
}

func TestIndexer_EmptyText(t *testing.T) {
	embeddings := &keywordEmbeddings{}
	ix := newTestIndexer(&funcAnswerer{}, embeddings)

	for _, text := range []string{"", "   \n\t "} {
		_, _, err := ix.BuildIndices(context.Background(), text)
		assert.ErrorIs(t, err, domain.ErrEmptyTranscript)
	}
	assert.Zero(t, embeddings.batchCount())
}

func TestIndexer_NoEmbeddingService(t *testing.T) {
	ix := newTestIndexer(&funcAnswerer{}, nil)

	_, _, err := ix.BuildIndices(context.Background(), meetingText)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestVectorStoreIndex_RetrieveAndQuery(t *testing.T) {
	embeddings := &keywordEmbeddings{keywords: []string{"apple", "budget"}}
	answerer := &funcAnswerer{}
	answerer.fn = func(prompt string) (string, error) {
		_, _, _, ctx := promptParts(prompt)
		return "from: " + ctx, nil
	}
	ix := newTestIndexer(answerer, embeddings)

	_, vector, err := ix.BuildIndices(context.Background(), meetingText)
	require.NoError(t, err)
	defer vector.Close()

	scored, err := vector.Retrieve(context.Background(), "what about the budget?")
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, 1, scored[0].Node.Index)
	assert.Greater(t, scored[0].Score, 0.9)

	got, err := vector.QueryEngine().Query(context.Background(), "what about the budget?")
	require.NoError(t, err)
	assert.Equal(t, "from: The budget was approved by the board. Budget numbers increase next year.", got)
	assert.Equal(t, []string{driven.PromptTextQA}, answerer.names())
}

func TestSummaryIndex_QueryUsesEveryNode(t *testing.T) {
	answerer := &funcAnswerer{}
	answerer.fn = func(prompt string) (string, error) {
		_, _, _, ctx := promptParts(prompt)
		return ctx, nil
	}
	ix := newTestIndexer(answerer, &keywordEmbeddings{})

	summary, _, err := ix.BuildIndices(context.Background(), meetingText)
	require.NoError(t, err)

	got, err := summary.QueryEngine().Query(context.Background(), "summarise")
	require.NoError(t, err)
	assert.Contains(t, got, "Apples are red")
	assert.Contains(t, got, "Budget numbers")
	assert.Equal(t, []string{driven.PromptTreeSummarize}, answerer.names())
}

// sizedEmbeddings advertises one dimension count and returns vectors of
// the sizes in dims, cycling per text.
type sizedEmbeddings struct {
	advertised int
	dims       []int
}

func (e sizedEmbeddings) vector(i int) []float32 {
	v := make([]float32, e.dims[i%len(e.dims)])
	for j := range v {
		v[j] = float32(j%7) + 1
	}
	return v
}

func (e sizedEmbeddings) Embed(_ context.Context, _ string) ([]float32, error) {
	return e.vector(0), nil
}

func (e sizedEmbeddings) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vector(i)
	}
	return out, nil
}

func (e sizedEmbeddings) Dimensions() int              { return e.advertised }
func (e sizedEmbeddings) ModelName() string            { return "bge-m3" }
func (e sizedEmbeddings) Ping(_ context.Context) error { return nil }
func (e sizedEmbeddings) Close() error                 { return nil }

func TestIndexer_UsesReturnedDimensions(t *testing.T) {
	ix := newTestIndexer(&funcAnswerer{}, sizedEmbeddings{advertised: 768, dims: []int{1024}})

	_, vector, err := ix.BuildIndices(context.Background(), meetingText)
	require.NoError(t, err)
	defer vector.Close()

	assert.Equal(t, 2, vector.Len())
	scored, err := vector.Retrieve(context.Background(), "budget")
	require.NoError(t, err)
	assert.Len(t, scored, 1)
}

func TestIndexer_InconsistentVectorsAreNotInputErrors(t *testing.T) {
	ix := newTestIndexer(&funcAnswerer{}, sizedEmbeddings{advertised: 768, dims: []int{768, 1024}})

	_, _, err := ix.BuildIndices(context.Background(), meetingText)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "index node 1")
}
