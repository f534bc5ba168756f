// Package pipeline wires the RAG components into the ingestion, retrieval
// and chat flows.
package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hrassist/internal/rag/loaders"
	"hrassist/internal/rag/schema"
	"hrassist/internal/rag/splitters"
	"hrassist/internal/rag/storages/vectorstore"
	"hrassist/pkg/logger"
)

// Embedder produces a fixed-dimension vector for a piece of text.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	FilesSeen     int // regular files found in the directory
	FilesIngested int // files that produced at least one chunk
	Chunks        int // chunks ingested (or would-be-ingested in dry-run)
}

// IndexingPipeline walks a document directory and loads its chunk vectors
// into the index. It is a single-threaded batch tool; running two instances
// against the same partition concurrently would double-ingest.
type IndexingPipeline struct {
	extractor  *loaders.Extractor
	splitter   *splitters.CharSplitter
	embedder   Embedder                // unused in dry-run mode
	store      vectorstore.VectorStore // unused in dry-run mode
	dim        int
	docBaseURL string
	dryRun     bool
	log        *logger.Logger
}

// NewIndexingPipeline creates an IndexingPipeline. In dry-run mode embedder
// and store may be nil: deterministic placeholder vectors of the index
// dimension replace embedding calls and no upsert happens.
func NewIndexingPipeline(
	extractor *loaders.Extractor,
	splitter *splitters.CharSplitter,
	embedder Embedder,
	store vectorstore.VectorStore,
	dim int,
	docBaseURL string,
	dryRun bool,
	log *logger.Logger,
) *IndexingPipeline {
	return &IndexingPipeline{
		extractor:  extractor,
		splitter:   splitter,
		embedder:   embedder,
		store:      store,
		dim:        dim,
		docBaseURL: docBaseURL,
		dryRun:     dryRun,
		log:        log,
	}
}

// Run processes every regular file in dir, non-recursively. An unrecoverable
// error on any file aborts the whole run; ingestion is an offline batch tool
// and fail-fast keeps partial state obvious.
func (p *IndexingPipeline) Run(ctx context.Context, dir string) (*IngestReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory %s: %w", dir, err)
	}

	report := &IngestReport{}
	p.log.Info(fmt.Sprintf("Found %d entries in %s", len(entries), dir))

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		report.FilesSeen++

		name := entry.Name()
		path := filepath.Join(dir, name)

		text, err := p.extractor.Extract(path)
		if err != nil {
			return report, err
		}

		chunks := p.splitter.Split(text)
		if len(chunks) == 0 {
			p.log.Info(fmt.Sprintf("Skipping %s: no chunks", name))
			continue
		}

		records, err := p.buildRecords(ctx, name, chunks)
		if err != nil {
			return report, err
		}

		if p.dryRun {
			p.log.Info(fmt.Sprintf("[DRY-RUN] Would ingest %d chunks from %s", len(records), name))
		} else {
			if err := p.store.Upsert(ctx, records); err != nil {
				return report, fmt.Errorf("failed to upsert chunks from %s: %w", name, err)
			}
			p.log.Info(fmt.Sprintf("Ingested %d chunks from %s", len(records), name))
		}

		report.FilesIngested++
		report.Chunks += len(records)
	}

	return report, nil
}

func (p *IndexingPipeline) buildRecords(ctx context.Context, fileName string, chunks []string) ([]*schema.Record, error) {
	url := ""
	if p.docBaseURL != "" {
		url = strings.TrimRight(p.docBaseURL, "/") + "/" + fileName
	}

	records := make([]*schema.Record, 0, len(chunks))
	for i, chunk := range chunks {
		var vec []float32
		if p.dryRun {
			vec = make([]float32, p.dim)
		} else {
			var err error
			vec, err = p.embedder.EmbedQuery(ctx, chunk)
			if err != nil {
				return nil, fmt.Errorf("failed to embed chunk %d of %s: %w", i, fileName, err)
			}
		}

		records = append(records, &schema.Record{
			ID:         fmt.Sprintf("%s#%d-%s", fileName, i, randomSuffix()),
			Embedding:  vec,
			SourceFile: fileName,
			ChunkIndex: i,
			ChunkText:  chunk,
			URL:        url,
		})
	}
	return records, nil
}

// randomSuffix returns 8 hex characters to keep record ids unique across
// repeated ingestion runs.
func randomSuffix() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:8]
}
