package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ymaeda-ai/insurag/internal/config"
	"github.com/ymaeda-ai/insurag/internal/embeddings"
	"github.com/ymaeda-ai/insurag/internal/engine"
	"github.com/ymaeda-ai/insurag/internal/llm"
	"github.com/ymaeda-ai/insurag/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly
// error. Bad configuration is rejected here, before any command does
// work.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `insurag init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// Shared by the index, query, serve and mcp commands. The embedder is
// wrapped with retries so transient backend errors do not abort a run.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	var inner embeddings.Embedder
	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		inner = embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel)
	case config.ProviderOllama:
		inner = embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, os.Getenv("OLLAMA_HOST"))
	default:
		// The mock provider still needs embeddings for indexing; fall
		// back to OpenAI when a key is available.
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		inner = embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel)
	}

	return embeddings.NewRetryEmbedder(inner, 3), nil
}

// createServiceFromConfig builds the query service. The mock provider
// yields a canned-answer service that works offline; anything else
// builds the real engine with a lazily opened persistent store.
func createServiceFromConfig(cfg *config.Config) (engine.Service, error) {
	if cfg.Provider == config.ProviderMock {
		return engine.NewMock(cfg), nil
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	openStore := func(ctx context.Context) (vectordb.Store, error) {
		return vectordb.NewChromemStore(vectorDir(cfg), embedder)
	}

	return engine.New(cfg, embedder, provider, openStore), nil
}

func vectorDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectordb")
}

func manifestPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "insurag.db")
}
