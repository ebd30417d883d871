package config

// DefaultExistingKeywords vote for the existing/competitor-products corpus.
var DefaultExistingKeywords = []string{
	"existing",
	"current",
	"competitor",
	"metlife",
	"aig",
	"sonpo",
	"japan post",
	"market",
	"compare",
}

// DefaultDesignKeywords vote for the new-product-design corpus.
var DefaultDesignKeywords = []string{
	"tokyodrive",
	"tokyo drive",
	"new product",
	"our product",
	"design",
	"pricing tier",
	"coverage",
	"feature",
	"specification",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		DataDir:           ".insurag",
		Corpora: CorporaConfig{
			ExistingDir: "data/existing-products",
			DesignDir:   "data/product-design",
			Include:     []string{"**/*.txt", "**/*.md"},
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK:              3,
			PassageCharLimit:  800,
			ContextCharBudget: 3200,
		},
		Generation: GenerationConfig{
			MaxTokens:   512,
			Temperature: 0.7,
		},
		Routing: RoutingConfig{
			ExistingKeywords: DefaultExistingKeywords,
			DesignKeywords:   DefaultDesignKeywords,
		},
		Server: ServerConfig{
			Port:            8000,
			MaxInFlight:     10,
			QueryTimeoutSec: 30,
			GenTimeoutSec:   20,
			IdleTimeoutSec:  0,
		},
	}
}
