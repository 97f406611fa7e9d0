package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBM25GenerateShapes(t *testing.T) {
	e := NewBM25Embedder(BM25Config{Dimensions: 64})

	vectors, err := e.Generate(context.Background(), []string{
		"speech overlap between speakers",
		"heart rate synchrony across team members",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	for _, v := range vectors {
		assert.Len(t, v, 64)
	}
}

func TestBM25VectorsAreNormalized(t *testing.T) {
	e := NewBM25Embedder(BM25Config{})

	vectors, err := e.Generate(context.Background(), []string{"coordination of interdependent actions"})
	require.NoError(t, err)

	var norm float64
	for _, x := range vectors[0] {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestBM25SimilarTextsScoreHigher(t *testing.T) {
	e := NewBM25Embedder(BM25Config{})

	vectors, err := e.Generate(context.Background(), []string{
		"speech overlap ratio between speakers",
		"overlap of speech among speakers",
		"galvanic skin response amplitude",
	})
	require.NoError(t, err)

	related := CosineSimilarity(vectors[0], vectors[1])
	unrelated := CosineSimilarity(vectors[0], vectors[2])
	assert.Greater(t, related, unrelated)
}

func TestBM25EmptyText(t *testing.T) {
	e := NewBM25Embedder(BM25Config{})

	vectors, err := e.Generate(context.Background(), []string{""})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Len(t, vectors[0], e.Dimensions())
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"opposite", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 0, 0}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	key := ContentHash("test-model:some text")
	_, err = cache.Get(ctx, key)
	assert.Error(t, err, "miss before Put")

	vec := []float32{0.1, 0.2, 0.3}
	require.NoError(t, cache.Put(ctx, key, vec))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestContentHashIsStable(t *testing.T) {
	assert.Equal(t, ContentHash("same text"), ContentHash("same text"))
	assert.NotEqual(t, ContentHash("same text"), ContentHash("other text"))
	assert.Len(t, ContentHash("x"), 64)
}
