package pipeline

import (
	"context"
	"fmt"

	"hrassist/internal/rag/schema"
	"hrassist/internal/rag/storages/vectorstore"
	"hrassist/pkg/logger"
)

// RetrievalPipeline embeds a query and returns the nearest document chunks
// from the vector index.
type RetrievalPipeline struct {
	embedder Embedder
	store    vectorstore.VectorStore
	log      *logger.Logger
}

// NewRetrievalPipeline creates a RetrievalPipeline.
func NewRetrievalPipeline(embedder Embedder, store vectorstore.VectorStore, log *logger.Logger) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// Run returns up to topK documents ranked by descending index similarity.
// No matches is not an error; the result is then an empty slice.
func (p *RetrievalPipeline) Run(ctx context.Context, query string, topK int) ([]*schema.RetrievedDocument, error) {
	vec, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := p.store.Query(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}
	if docs == nil {
		docs = []*schema.RetrievedDocument{}
	}

	p.log.WithPayload(map[string]interface{}{
		"matches": len(docs),
		"top_k":   topK,
	}).Debug("Retrieval finished")
	return docs, nil
}
