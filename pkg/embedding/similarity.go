package embedding

import (
	"context"
	"math"

	"github.com/yorikya/note-speaker/internal/pkg/logger"
)

// Matcher embeds text through a provider and degrades to the deterministic
// fallback whenever the provider is missing or fails. It never returns an error.
type Matcher struct {
	provider EmbeddingProvider
	fallback *FallbackProvider
	taskType string
	logger   logger.ILogger
}

// NewMatcher creates a matcher. A nil provider means fallback-only.
func NewMatcher(provider EmbeddingProvider, log logger.ILogger) *Matcher {
	return &Matcher{
		provider: provider,
		fallback: NewFallbackProvider(FallbackDimensions),
		taskType: TaskSemanticSimilarity,
		logger:   log,
	}
}

// Embed returns the embedding of a single text
func (m *Matcher) Embed(ctx context.Context, text string) []float32 {
	if m.provider == nil {
		return m.fallback.Vector(text)
	}

	res, err := m.provider.Generate(ctx, text, m.taskType)
	if err != nil || res == nil || len(res.Embedding.Values) == 0 {
		m.logger.Warn("EMBEDDING", "Provider failed, using fallback vector", map[string]interface{}{
			"text":  text,
			"error": errString(err),
		})
		return m.fallback.Vector(text)
	}
	return res.Embedding.Values
}

// EmbedBatch embeds every text. If any text fails, the whole batch switches to
// fallback vectors so all returned vectors share one dimensionality.
func (m *Matcher) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	if len(texts) == 0 {
		return nil
	}
	if m.provider == nil {
		return m.fallbackBatch(texts)
	}

	if bp, ok := m.provider.(BatchProvider); ok {
		responses, err := bp.GenerateBatch(ctx, texts, m.taskType)
		if err == nil && len(responses) == len(texts) {
			out := make([][]float32, len(responses))
			for i, r := range responses {
				if r == nil || len(r.Embedding.Values) == 0 {
					return m.batchFailed(texts, nil)
				}
				out[i] = r.Embedding.Values
			}
			return out
		}
		return m.batchFailed(texts, err)
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := m.provider.Generate(ctx, text, m.taskType)
		if err != nil || res == nil || len(res.Embedding.Values) == 0 {
			return m.batchFailed(texts, err)
		}
		out[i] = res.Embedding.Values
	}
	return out
}

func (m *Matcher) batchFailed(texts []string, err error) [][]float32 {
	m.logger.Warn("EMBEDDING", "Batch embedding failed, using fallback vectors", map[string]interface{}{
		"count": len(texts),
		"error": errString(err),
	})
	return m.fallbackBatch(texts)
}

func (m *Matcher) fallbackBatch(texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.fallback.Vector(text)
	}
	return out
}

// CosineSimilarity returns a value in [-1, 1]; 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp rounding drift
	return math.Max(-1, math.Min(1, sim))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
