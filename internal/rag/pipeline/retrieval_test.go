package pipeline

import (
	"context"
	"errors"
	"testing"

	"hrassist/internal/rag/schema"
	"hrassist/pkg/logger"
)

func TestRetrievalReturnsStoreMatches(t *testing.T) {
	docs := []*schema.RetrievedDocument{
		{Score: 0.92, Text: "25 vacation days", File: "vacation-policy.pdf", URL: "https://docs.example.com/hr/vacation-policy.pdf"},
		{Score: 0.81, Text: "carry-over rules", File: "vacation-policy.pdf", URL: "https://docs.example.com/hr/vacation-policy.pdf"},
	}
	store := &fakeStore{docs: docs}
	embedder := &fakeEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	p := NewRetrievalPipeline(embedder, store, logger.New("test"))

	got, err := p.Run(context.Background(), "how many vacation days do I get?", 5)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(got))
	}
	if got[0].File != "vacation-policy.pdf" || got[0].Score != 0.92 {
		t.Errorf("Unexpected first document: %+v", got[0])
	}
	if len(store.topKs) != 1 || store.topKs[0] != 5 {
		t.Errorf("Expected one store query with topK=5, got %v", store.topKs)
	}
	if len(embedder.queries) != 1 || embedder.queries[0] != "how many vacation days do I get?" {
		t.Errorf("Unexpected embedded queries: %v", embedder.queries)
	}
}

func TestRetrievalEmptyResultIsNotAnError(t *testing.T) {
	p := NewRetrievalPipeline(&fakeEmbedder{vec: []float32{1}}, &fakeStore{}, logger.New("test"))

	got, err := p.Run(context.Background(), "unrelated question", 5)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("Expected no documents, got %d", len(got))
	}
}

func TestRetrievalPropagatesEmbeddingError(t *testing.T) {
	wantErr := errors.New("all embedding providers down")
	store := &fakeStore{}
	p := NewRetrievalPipeline(&fakeEmbedder{err: wantErr}, store, logger.New("test"))

	if _, err := p.Run(context.Background(), "question", 5); !errors.Is(err, wantErr) {
		t.Fatalf("Expected wrapped embedding error, got %v", err)
	}
	if len(store.vectors) != 0 {
		t.Errorf("Expected no store query after embedding failure, got %d", len(store.vectors))
	}
}

func TestRetrievalPropagatesStoreError(t *testing.T) {
	wantErr := errors.New("index unavailable")
	p := NewRetrievalPipeline(&fakeEmbedder{vec: []float32{1}}, &fakeStore{err: wantErr}, logger.New("test"))

	if _, err := p.Run(context.Background(), "question", 5); !errors.Is(err, wantErr) {
		t.Fatalf("Expected wrapped store error, got %v", err)
	}
}
