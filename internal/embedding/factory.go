package embedding

import (
	"fmt"

	"hrassist/internal/config"
)

// New creates an Embedding client for the given provider name.
func New(provider, model, apiKey, baseURL string) (Embedding, error) {
	switch provider {
	case "gemini":
		return NewGeminiModel(apiKey, model)
	case "openai":
		return NewOpenAIModel(apiKey, model)
	case "ollama":
		return NewOllamaModel(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// FromConfig resolves the model name, API key and base URL of the named
// provider from the application configuration and creates its client.
func FromConfig(cfg *config.AppConfig, provider string) (Embedding, error) {
	switch provider {
	case "gemini":
		return New(provider, cfg.Gemini.EmbedModel, cfg.Gemini.APIKey, "")
	case "openai":
		return New(provider, cfg.OpenAI.EmbedModel, cfg.OpenAI.APIKey, "")
	case "ollama":
		return New(provider, cfg.Ollama.EmbedModel, "", cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
