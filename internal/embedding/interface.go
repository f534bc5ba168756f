package embedding

import "context"

// Embedding is the interface implemented by all embedding model clients.
type Embedding interface {
	// Embed generates an embedding vector for a single text. The vector
	// length is provider-dependent; callers that store or compare vectors
	// must normalize it first.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embedding vectors for a batch of texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
