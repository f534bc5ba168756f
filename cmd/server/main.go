package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hrassist/internal/api"
	"hrassist/internal/config"
	"hrassist/internal/embedding"
	"hrassist/internal/llm"
	"hrassist/internal/metrics"
	"hrassist/internal/rag/pipeline"
	"hrassist/internal/rag/storages/vectorstore"
	"hrassist/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the configuration file")
	flag.Parse()

	logger.Init(logrus.InfoLevel)
	appLogger := logger.New(api.ServiceName)
	appLogger.Info("Starting HR RAG API...")

	// Optional .env file for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	systemPrompt, err := os.ReadFile(cfg.Chat.SystemPromptPath)
	if err != nil {
		log.Fatalf("Failed to read system prompt %s: %v", cfg.Chat.SystemPromptPath, err)
	}

	ctx := context.Background()

	// Embedding: primary provider with optional secondary fallback, both
	// normalized to the index dimension.
	primaryEmbed, err := embedding.FromConfig(cfg, cfg.Embedding.Primary)
	if err != nil {
		log.Fatalf("Failed to create primary embedding client: %v", err)
	}
	var secondaryEmbed embedding.Embedding
	if name := secondaryProvider(cfg, appLogger); name != "" {
		secondaryEmbed, err = embedding.FromConfig(cfg, name)
		if err != nil {
			log.Fatalf("Failed to create secondary embedding client: %v", err)
		}
	}
	provider := embedding.NewProvider(primaryEmbed, secondaryEmbed, cfg.Milvus.Dim, appLogger)

	store, err := vectorstore.NewMilvusStore(ctx, cfg.Milvus.Address, cfg.Milvus.Collection, cfg.Milvus.Partition, cfg.Milvus.Dim, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to Milvus: %v", err)
	}
	defer store.Close()

	primaryChat, err := llm.NewGemini(ctx, cfg.Gemini.ChatModel, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("Failed to create Gemini chat client: %v", err)
	}
	var secondaryChat llm.ChatModel
	if cfg.OpenAI.APIKey != "" {
		secondaryChat = llm.NewOpenAI(cfg.OpenAI.ChatModel, cfg.OpenAI.APIKey, cfg.Chat.MaxCompletionTokens)
	} else {
		appLogger.Warn("OpenAI API key not configured, chat fallback disabled")
	}

	counters := metrics.NewCounters()
	retrieval := pipeline.NewRetrievalPipeline(provider, store, appLogger)
	chat := pipeline.NewChatPipeline(
		retrieval,
		primaryChat,
		secondaryChat,
		strings.TrimSpace(string(systemPrompt)),
		pipeline.ChatOptions{
			TopK:            cfg.Chat.TopK,
			MaxMessageChars: cfg.Chat.MaxMessageChars,
			MaxContextChars: cfg.Chat.MaxContextChars,
		},
		counters,
		appLogger,
	)

	handler := api.NewHandler(chat, counters, appLogger)
	router := api.SetupRouter(handler)

	srv := &http.Server{Addr: cfg.Server.Port, Handler: router}
	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening at %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(fmt.Sprintf("Server shutdown failed: %v", err))
	}
	appLogger.Info("Server stopped")
}

// secondaryProvider resolves the configured fallback embedding provider,
// dropping it when its credentials are missing.
func secondaryProvider(cfg *config.AppConfig, log *logger.Logger) string {
	name := cfg.Embedding.Secondary
	if name == "openai" && cfg.OpenAI.APIKey == "" {
		log.Warn("OpenAI API key not configured, embedding fallback disabled")
		return ""
	}
	if name == "gemini" && cfg.Gemini.APIKey == "" {
		log.Warn("Gemini API key not configured, embedding fallback disabled")
		return ""
	}
	return name
}
