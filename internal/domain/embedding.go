package domain

import "context"

// EmbeddingResult holds a query embedding and token usage for the call that made it.
// Cached results report zero tokens.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is an optional capability of collaborators (embedder, store).
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
