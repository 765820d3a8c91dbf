package embedding

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorikya/note-speaker/internal/pkg/logger"
)

// stubProvider returns fixed vectors and fails for texts listed in failOn
type stubProvider struct {
	vectors map[string][]float32
	failOn  map[string]bool
	calls   int
}

func (s *stubProvider) Generate(_ context.Context, text string, _ string) (*EmbeddingResponse, error) {
	s.calls++
	if s.failOn[text] {
		return nil, errors.New("provider unavailable")
	}
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: s.vectors[text]}}, nil
}

type stubBatchProvider struct {
	stubProvider
	batchCalls int
}

func (s *stubBatchProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*EmbeddingResponse, error) {
	s.batchCalls++
	out := make([]*EmbeddingResponse, len(texts))
	for i, t := range texts {
		r, err := s.stubProvider.Generate(ctx, t, taskType)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func TestFallbackVectorIsDeterministic(t *testing.T) {
	p := NewFallbackProvider(0)
	a := p.Vector("create note")
	b := p.Vector("create note")

	require.Len(t, a, FallbackDimensions)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-9)

	for _, v := range a {
		assert.True(t, v >= -1 && v < 1)
	}
}

func TestFallbackVectorsOfDifferentTextsAreNearlyOrthogonal(t *testing.T) {
	p := NewFallbackProvider(FallbackDimensions)
	sim := CosineSimilarity(p.Vector("create note"), p.Vector("banana smoothie recipe"))
	assert.Less(t, math.Abs(sim), 0.3)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMatcherWithoutProviderUsesFallback(t *testing.T) {
	m := NewMatcher(nil, logger.NewNopLogger())
	assert.Equal(t, NewFallbackProvider(0).Vector("find"), m.Embed(context.Background(), "find"))
}

func TestMatcherEmbedFallsBackOnError(t *testing.T) {
	p := &stubProvider{
		vectors: map[string][]float32{"ok": {1, 0}},
		failOn:  map[string]bool{"broken": true},
	}
	m := NewMatcher(p, logger.NewNopLogger())

	assert.Equal(t, []float32{1, 0}, m.Embed(context.Background(), "ok"))

	got := m.Embed(context.Background(), "broken")
	assert.Len(t, got, FallbackDimensions)
	assert.Equal(t, NewFallbackProvider(0).Vector("broken"), got)
}

func TestMatcherEmbedBatchSwitchesWholeBatchOnFailure(t *testing.T) {
	p := &stubProvider{
		vectors: map[string][]float32{"a": {1, 0}, "b": {0, 1}},
		failOn:  map[string]bool{"c": true},
	}
	m := NewMatcher(p, logger.NewNopLogger())

	ok := m.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, ok)

	mixed := m.EmbedBatch(context.Background(), []string{"a", "c"})
	require.Len(t, mixed, 2)
	for _, v := range mixed {
		assert.Len(t, v, FallbackDimensions)
	}

	assert.Nil(t, m.EmbedBatch(context.Background(), nil))
}

func TestMatcherEmbedBatchUsesNativeBatch(t *testing.T) {
	p := &stubBatchProvider{stubProvider: stubProvider{
		vectors: map[string][]float32{"a": {1, 0}, "b": {0, 1}},
	}}
	m := NewMatcher(p, logger.NewNopLogger())

	got := m.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, got)
	assert.Equal(t, 1, p.batchCalls)
}

func TestOllamaProviderNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"embedding":[3,4]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	res, err := p.Generate(context.Background(), "hello", TaskSemanticSimilarity)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, res.Embedding.Values, 1e-6)
}

func TestOllamaProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "hello", "")
	assert.Error(t, err)
}
