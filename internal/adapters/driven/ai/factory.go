// Package ai constructs LLM and embedding services for a configured provider.
package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/parchment-labs/docuchat/internal/adapters/driven/ai/anthropic"
	"github.com/parchment-labs/docuchat/internal/adapters/driven/ai/gemini"
	"github.com/parchment-labs/docuchat/internal/adapters/driven/ai/ollama"
	"github.com/parchment-labs/docuchat/internal/adapters/driven/ai/openai"
	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Config selects and configures an AI provider.
type Config struct {
	// Provider picks the LLM backend.
	Provider domain.AIProvider

	// EmbeddingProvider picks the embedding backend. Empty means same as
	// Provider. Anthropic has no embedding API, so it needs this set.
	EmbeddingProvider domain.AIProvider

	// APIKey overrides the provider's environment variable.
	APIKey string

	// Model is the chat model name. Empty uses the provider default.
	Model string

	// EmbeddingModel is the embedding model name. Empty uses the default.
	EmbeddingModel string

	// EmbeddingDimensions overrides the default vector size.
	EmbeddingDimensions int

	// OllamaBaseURL points at a non-default Ollama instance.
	OllamaBaseURL string
}

// DefaultProvider is used when no provider is configured.
const DefaultProvider = domain.AIProviderGemini

// NewLLM builds an LLM service for the configured provider.
func NewLLM(ctx context.Context, cfg Config) (driven.LLMService, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = DefaultProvider
	}

	switch provider {
	case domain.AIProviderGemini:
		return gemini.NewLLM(ctx, apiKey(cfg, "GEMINI_API_KEY"), cfg.Model)
	case domain.AIProviderOpenAI:
		return openai.NewLLM(apiKey(cfg, "OPENAI_API_KEY"), cfg.Model)
	case domain.AIProviderAnthropic:
		return anthropic.NewLLM(apiKey(cfg, "ANTHROPIC_API_KEY"), cfg.Model)
	case domain.AIProviderOllama:
		return ollama.NewLLM(cfg.OllamaBaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("%w: unknown AI provider %q", domain.ErrInvalidInput, provider)
	}
}

// NewEmbedding builds an embedding service for the configured provider.
func NewEmbedding(ctx context.Context, cfg Config) (driven.EmbeddingService, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	if provider == "" {
		provider = DefaultProvider
	}

	switch provider {
	case domain.AIProviderGemini:
		return gemini.NewEmbedding(ctx, apiKey(cfg, "GEMINI_API_KEY"), cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	case domain.AIProviderOpenAI:
		return openai.NewEmbedding(apiKey(cfg, "OPENAI_API_KEY"), cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic has no embedding API, set an embedding provider", domain.ErrInvalidInput)
	case domain.AIProviderOllama:
		return ollama.NewEmbedding(cfg.OllamaBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, provider)
	}
}

// apiKey resolves the provider key: explicit config, then DOCUCHAT_API_KEY,
// then the provider's own environment variable.
func apiKey(cfg Config, envVar string) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	if key := os.Getenv("DOCUCHAT_API_KEY"); key != "" {
		return key
	}
	return os.Getenv(envVar)
}
