package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port string `yaml:"port"` // Listen address (e.g. ":8080")
}

// GeminiConfig holds the Gemini API credentials and model names.
type GeminiConfig struct {
	APIKey     string `yaml:"apiKey"`     // API key; GEMINI_API_KEY overrides
	ChatModel  string `yaml:"chatModel"`  // Chat-capable model (e.g. "gemini-2.0-flash")
	EmbedModel string `yaml:"embedModel"` // Embedding model (e.g. "gemini-embedding-001")
}

// OpenAIConfig holds the OpenAI API credentials and model names.
// An empty API key disables the secondary provider entirely.
type OpenAIConfig struct {
	APIKey     string `yaml:"apiKey"`     // API key; OPENAI_API_KEY overrides
	ChatModel  string `yaml:"chatModel"`  // Chat model (e.g. "gpt-4o-mini")
	EmbedModel string `yaml:"embedModel"` // Embedding model (e.g. "text-embedding-3-small")
}

// OllamaConfig holds the settings for a local Ollama embedding provider.
type OllamaConfig struct {
	BaseURL    string `yaml:"baseURL"`    // Service URL, defaults to http://localhost:11434
	EmbedModel string `yaml:"embedModel"` // Embedding model name
}

// EmbeddingConfig selects which provider backs each embedding role.
type EmbeddingConfig struct {
	Primary   string `yaml:"primary"`   // Provider name: "gemini", "openai" or "ollama"
	Secondary string `yaml:"secondary"` // Fallback provider name; empty disables fallback
}

// MilvusConfig holds the vector index connection settings.
type MilvusConfig struct {
	Address    string `yaml:"address"`    // Milvus service address
	Collection string `yaml:"collection"` // Collection holding the policy vectors
	Partition  string `yaml:"partition"`  // Partition isolating this document set
	Dim        int    `yaml:"dim"`        // Target embedding dimension
}

// IngestConfig holds the document ingestion settings.
type IngestConfig struct {
	DocsDir      string `yaml:"docsDir"`      // Directory scanned for policy documents
	ChunkSize    int    `yaml:"chunkSize"`    // Maximum chunk length in characters
	ChunkOverlap int    `yaml:"chunkOverlap"` // Overlap between consecutive chunks
	DocBaseURL   string `yaml:"docBaseURL"`   // Optional base URL for citation links
}

// ChatConfig holds the request-scoped budgets of the chat orchestrator.
type ChatConfig struct {
	TopK                int    `yaml:"topK"`                // Neighbors requested per query
	MaxMessageChars     int    `yaml:"maxMessageChars"`     // Incoming message cap
	MaxContextChars     int    `yaml:"maxContextChars"`     // Retrieved context cap
	MaxCompletionTokens int    `yaml:"maxCompletionTokens"` // Output bound for the fallback model
	SystemPromptPath    string `yaml:"systemPromptPath"`    // System instruction file
}

// AppConfig is the root configuration, loaded once at startup.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Milvus    MilvusConfig    `yaml:"milvus"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Chat      ChatConfig      `yaml:"chat"`
}

// LoadConfig reads the YAML configuration from the given path, overlays
// credential environment variables and fills in defaults.
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Credentials come from the environment when set, so keys can stay out
	// of the config file.
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Gemini.ChatModel == "" {
		c.Gemini.ChatModel = "gemini-2.0-flash"
	}
	if c.Gemini.EmbedModel == "" {
		c.Gemini.EmbedModel = "gemini-embedding-001"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.OpenAI.EmbedModel == "" {
		c.OpenAI.EmbedModel = "text-embedding-3-small"
	}
	if c.Embedding.Primary == "" {
		c.Embedding.Primary = "gemini"
	}
	if c.Milvus.Collection == "" {
		c.Milvus.Collection = "hr_policies"
	}
	if c.Milvus.Partition == "" {
		c.Milvus.Partition = "hr"
	}
	if c.Milvus.Dim == 0 {
		c.Milvus.Dim = 768
	}
	if c.Ingest.DocsDir == "" {
		c.Ingest.DocsDir = "documents"
	}
	if c.Ingest.ChunkSize == 0 {
		c.Ingest.ChunkSize = 1200
	}
	if c.Ingest.ChunkOverlap == 0 {
		c.Ingest.ChunkOverlap = 200
	}
	if c.Chat.TopK == 0 {
		c.Chat.TopK = 5
	}
	if c.Chat.MaxMessageChars == 0 {
		c.Chat.MaxMessageChars = 200
	}
	if c.Chat.MaxContextChars == 0 {
		c.Chat.MaxContextChars = 4000
	}
	if c.Chat.MaxCompletionTokens == 0 {
		c.Chat.MaxCompletionTokens = 400
	}
	if c.Chat.SystemPromptPath == "" {
		c.Chat.SystemPromptPath = "system_prompt.txt"
	}
}
