package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hrassist/internal/rag/loaders"
	"hrassist/internal/rag/schema"
	"hrassist/internal/rag/splitters"
	"hrassist/pkg/logger"
)

type fakeEmbedder struct {
	vec     []float32
	err     error
	queries []string
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeStore struct {
	upserts [][]*schema.Record
	docs    []*schema.RetrievedDocument
	err     error
	vectors [][]float32
	topKs   []int
}

func (f *fakeStore) Upsert(ctx context.Context, records []*schema.Record) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, records)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, vector []float32, topK int) ([]*schema.RetrievedDocument, error) {
	f.vectors = append(f.vectors, vector)
	f.topKs = append(f.topKs, topK)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestIndexingDryRunReportsWithoutNetworkCalls(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "handbook.txt", strings.Repeat("a", 3000))

	store := &fakeStore{}
	p := NewIndexingPipeline(
		loaders.NewExtractor(),
		splitters.NewCharSplitter(1200, 200),
		nil, // no embedder in dry-run
		store,
		768,
		"",
		true,
		logger.New("test"),
	)

	report, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Chunks != 3 {
		t.Errorf("Expected 3 chunks reported, got %d", report.Chunks)
	}
	if report.FilesSeen != 1 || report.FilesIngested != 1 {
		t.Errorf("Expected 1 file seen and ingested, got %d/%d", report.FilesSeen, report.FilesIngested)
	}
	if len(store.upserts) != 0 {
		t.Errorf("Expected zero upsert calls in dry-run, got %d", len(store.upserts))
	}
}

func TestIndexingBuildsRecords(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "vacation-policy.txt", "Employees receive 25 vacation days per year.")

	store := &fakeStore{}
	embedder := &fakeEmbedder{vec: make([]float32, 768)}
	p := NewIndexingPipeline(
		loaders.NewExtractor(),
		splitters.NewCharSplitter(1200, 200),
		embedder,
		store,
		768,
		"https://docs.example.com/hr/",
		false,
		logger.New("test"),
	)

	report, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Chunks != 1 {
		t.Fatalf("Expected 1 chunk, got %d", report.Chunks)
	}
	if len(store.upserts) != 1 || len(store.upserts[0]) != 1 {
		t.Fatalf("Expected one upsert batch with one record, got %v", store.upserts)
	}

	rec := store.upserts[0][0]
	prefix := "vacation-policy.txt#0-"
	if !strings.HasPrefix(rec.ID, prefix) {
		t.Errorf("Expected id prefix %q, got %q", prefix, rec.ID)
	}
	if len(rec.ID) != len(prefix)+8 {
		t.Errorf("Expected 8-character random suffix, got id %q", rec.ID)
	}
	if rec.SourceFile != "vacation-policy.txt" || rec.ChunkIndex != 0 {
		t.Errorf("Unexpected record metadata: %+v", rec)
	}
	if rec.URL != "https://docs.example.com/hr/vacation-policy.txt" {
		t.Errorf("Unexpected citation URL: %q", rec.URL)
	}
	if len(rec.Embedding) != 768 {
		t.Errorf("Expected 768-dim embedding, got %d", len(rec.Embedding))
	}
	if len(embedder.queries) != 1 {
		t.Errorf("Expected one embedding call, got %d", len(embedder.queries))
	}
}

func TestIndexingSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "empty.txt", "")

	store := &fakeStore{}
	p := NewIndexingPipeline(
		loaders.NewExtractor(),
		splitters.NewCharSplitter(1200, 200),
		&fakeEmbedder{vec: make([]float32, 8)},
		store,
		8,
		"",
		false,
		logger.New("test"),
	)

	report, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.FilesSeen != 1 {
		t.Errorf("Expected the empty file counted as seen, got %d", report.FilesSeen)
	}
	if report.FilesIngested != 0 || report.Chunks != 0 {
		t.Errorf("Expected nothing ingested, got %d files / %d chunks", report.FilesIngested, report.Chunks)
	}
	if len(store.upserts) != 0 {
		t.Errorf("Expected no upsert calls, got %d", len(store.upserts))
	}
}

func TestIndexingFailsFastOnEmbeddingError(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "some policy text")

	p := NewIndexingPipeline(
		loaders.NewExtractor(),
		splitters.NewCharSplitter(1200, 200),
		&fakeEmbedder{err: context.DeadlineExceeded},
		&fakeStore{},
		8,
		"",
		false,
		logger.New("test"),
	)

	if _, err := p.Run(context.Background(), dir); err == nil {
		t.Fatal("Expected the run to abort on embedding failure")
	}
}
