package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \":9090\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != ":9090" {
		t.Errorf("Expected explicit port kept, got %q", cfg.Server.Port)
	}
	if cfg.Milvus.Dim != 768 {
		t.Errorf("Expected default dim 768, got %d", cfg.Milvus.Dim)
	}
	if cfg.Ingest.ChunkSize != 1200 || cfg.Ingest.ChunkOverlap != 200 {
		t.Errorf("Expected default chunking 1200/200, got %d/%d", cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	}
	if cfg.Chat.TopK != 5 || cfg.Chat.MaxMessageChars != 200 || cfg.Chat.MaxContextChars != 4000 {
		t.Errorf("Unexpected chat defaults: %+v", cfg.Chat)
	}
	if cfg.Embedding.Primary != "gemini" {
		t.Errorf("Expected gemini as default primary provider, got %q", cfg.Embedding.Primary)
	}
}

func TestLoadConfigEnvOverridesKeys(t *testing.T) {
	path := writeConfig(t, "gemini:\n  apiKey: \"from-file\"\n")
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "openai-from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("Expected environment to override file key, got %q", cfg.Gemini.APIKey)
	}
	if cfg.OpenAI.APIKey != "openai-from-env" {
		t.Errorf("Expected OpenAI key from environment, got %q", cfg.OpenAI.APIKey)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}
