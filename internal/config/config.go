package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (INSURAG_*). Nested keys use underscores
// doubled, e.g. INSURAG_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("INSURAG_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "INSURAG_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
	ProviderMock:   true,
}

// Validate checks that the configuration contains valid values. It is the
// configuration-error gate: anything it rejects never reaches indexing or
// query handling.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, ollama, mock", c.Provider)
	}
	if c.Provider != ProviderMock && c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must be non-negative, got %d", c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap (%d) must be smaller than chunking.size (%d)",
			c.Chunking.Overlap, c.Chunking.Size)
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.PassageCharLimit <= 0 {
		return fmt.Errorf("retrieval.passage_char_limit must be positive, got %d", c.Retrieval.PassageCharLimit)
	}
	if c.Retrieval.ContextCharBudget <= 0 {
		return fmt.Errorf("retrieval.context_char_budget must be positive, got %d", c.Retrieval.ContextCharBudget)
	}

	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("generation.max_tokens must be positive, got %d", c.Generation.MaxTokens)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be in [0, 2], got %g", c.Generation.Temperature)
	}

	if c.Server.MaxInFlight <= 0 {
		return fmt.Errorf("server.max_in_flight must be positive, got %d", c.Server.MaxInFlight)
	}
	if c.Server.QueryTimeoutSec <= 0 {
		return fmt.Errorf("server.query_timeout_sec must be positive, got %d", c.Server.QueryTimeoutSec)
	}
	if c.Server.GenTimeoutSec <= 0 {
		return fmt.Errorf("server.gen_timeout_sec must be positive, got %d", c.Server.GenTimeoutSec)
	}
	if c.Server.IdleTimeoutSec < 0 {
		return fmt.Errorf("server.idle_timeout_sec must be non-negative, got %d", c.Server.IdleTimeoutSec)
	}

	return nil
}

// QueryTimeout returns the overall per-request wall-clock budget.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Server.QueryTimeoutSec) * time.Second
}

// GenerationTimeout returns the answer-generation wall-clock budget.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Server.GenTimeoutSec) * time.Second
}

// IdleTimeout returns the inactivity window after which a warm instance may
// be scaled back down. Zero disables idle scale-down.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutSec) * time.Second
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider, or "" when none is needed.
func APIKeyEnvVar(provider ProviderType) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return ""
}
