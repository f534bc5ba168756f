// Package vectorstore adapts the external vector index for the RAG pipeline.
package vectorstore

import (
	"context"

	"hrassist/internal/rag/schema"
)

// VectorStore is the interface for storing and querying chunk vectors.
type VectorStore interface {
	// Upsert writes a batch of records into the configured namespace.
	Upsert(ctx context.Context, records []*schema.Record) error

	// Query returns up to topK records ranked by descending similarity to the
	// given vector. An empty result set is valid and yields an empty slice,
	// not an error. Metadata is returned; raw vectors are not.
	Query(ctx context.Context, vector []float32, topK int) ([]*schema.RetrievedDocument, error)
}
