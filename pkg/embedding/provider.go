package embedding

import "context"

// TaskSemanticSimilarity is the task hint for providers that support one (others ignore it)
const TaskSemanticSimilarity = "SEMANTIC_SIMILARITY"

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// BatchProvider is implemented by providers with a native multi-input endpoint
type BatchProvider interface {
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*EmbeddingResponse, error)
}
