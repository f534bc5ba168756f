// Command ingest loads the HR policy documents into the vector index. It is
// a one-shot batch tool: it extracts, chunks, embeds and upserts every file
// in the configured directory, then exits. With --dry-run no network client
// is constructed at all; the tool only reports what it would ingest.
//
// Re-running against the same partition creates duplicate records (ids carry
// a random suffix); clear the partition first when re-ingesting.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hrassist/internal/config"
	"hrassist/internal/embedding"
	"hrassist/internal/rag/loaders"
	"hrassist/internal/rag/pipeline"
	"hrassist/internal/rag/splitters"
	"hrassist/internal/rag/storages/vectorstore"
	"hrassist/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the configuration file")
	dryRun := flag.Bool("dry-run", false, "report chunk counts without embedding or upserting")
	flag.Parse()

	logger.Init(logrus.InfoLevel)
	appLogger := logger.New("hr-rag-ingest")

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var embedder pipeline.Embedder
	var store vectorstore.VectorStore
	if *dryRun {
		appLogger.Info("=== DRY RUN MODE === no index connection, no embedding calls")
	} else {
		primary, err := embedding.FromConfig(cfg, cfg.Embedding.Primary)
		if err != nil {
			log.Fatalf("Failed to create primary embedding client: %v", err)
		}
		var secondary embedding.Embedding
		if name := cfg.Embedding.Secondary; name != "" && providerConfigured(cfg, name) {
			secondary, err = embedding.FromConfig(cfg, name)
			if err != nil {
				log.Fatalf("Failed to create secondary embedding client: %v", err)
			}
		}
		embedder = embedding.NewProvider(primary, secondary, cfg.Milvus.Dim, appLogger)

		milvus, err := vectorstore.NewMilvusStore(ctx, cfg.Milvus.Address, cfg.Milvus.Collection, cfg.Milvus.Partition, cfg.Milvus.Dim, appLogger)
		if err != nil {
			log.Fatalf("Failed to connect to Milvus: %v", err)
		}
		defer milvus.Close()
		store = milvus
	}

	ingest := pipeline.NewIndexingPipeline(
		loaders.NewExtractor(),
		splitters.NewCharSplitter(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		embedder,
		store,
		cfg.Milvus.Dim,
		cfg.Ingest.DocBaseURL,
		*dryRun,
		appLogger,
	)

	report, err := ingest.Run(ctx, cfg.Ingest.DocsDir)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Ingestion aborted: %v", err))
		os.Exit(1)
	}

	appLogger.WithPayload(map[string]interface{}{
		"files_seen":     report.FilesSeen,
		"files_ingested": report.FilesIngested,
		"chunks":         report.Chunks,
		"dry_run":        *dryRun,
	}).Info("Ingestion finished")
}

// providerConfigured reports whether the named provider has the credentials
// it needs.
func providerConfigured(cfg *config.AppConfig, name string) bool {
	switch name {
	case "openai":
		return cfg.OpenAI.APIKey != ""
	case "gemini":
		return cfg.Gemini.APIKey != ""
	default:
		return true
	}
}
