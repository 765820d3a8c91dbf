package embedding

import (
	"context"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// FallbackDimensions is the width of stand-in vectors
const FallbackDimensions = 512

// FallbackProvider produces deterministic pseudo-random vectors keyed by the text.
// Equal texts always map to equal vectors; unrelated texts are close to orthogonal
// because components are drawn from [-1, 1).
type FallbackProvider struct {
	dims int
}

func NewFallbackProvider(dims int) *FallbackProvider {
	if dims <= 0 {
		dims = FallbackDimensions
	}
	return &FallbackProvider{dims: dims}
}

// Vector returns the stand-in embedding for text
func (p *FallbackProvider) Vector(text string) []float32 {
	seed := xxhash.Sum64String(text)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	values := make([]float32, p.dims)
	for i := range values {
		values[i] = float32(rng.Float64()*2 - 1)
	}
	return values
}

// Generate never fails
func (p *FallbackProvider) Generate(_ context.Context, text string, _ string) (*EmbeddingResponse, error) {
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: p.Vector(text)},
	}, nil
}
