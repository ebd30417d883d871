package config

// ProviderType identifies an LLM or embedding backend.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderMock   ProviderType = "mock"
)

// Config is the top-level insurag configuration, corresponding to .insurag.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`

	Corpora    CorporaConfig    `yaml:"corpora" koanf:"corpora"`
	Chunking   ChunkingConfig   `yaml:"chunking" koanf:"chunking"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" koanf:"retrieval"`
	Generation GenerationConfig `yaml:"generation" koanf:"generation"`
	Routing    RoutingConfig    `yaml:"routing" koanf:"routing"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
}

// CorporaConfig points at the two source-document directories.
type CorporaConfig struct {
	ExistingDir string   `yaml:"existing_dir" koanf:"existing_dir"`
	DesignDir   string   `yaml:"design_dir" koanf:"design_dir"`
	Include     []string `yaml:"include" koanf:"include"`
	Exclude     []string `yaml:"exclude" koanf:"exclude"`
}

// ChunkingConfig controls how document text is split before embedding.
type ChunkingConfig struct {
	Size    int `yaml:"size" koanf:"size"`
	Overlap int `yaml:"overlap" koanf:"overlap"`
}

// RetrievalConfig bounds what is pulled out of the vector store per question.
type RetrievalConfig struct {
	TopK              int `yaml:"top_k" koanf:"top_k"`
	PassageCharLimit  int `yaml:"passage_char_limit" koanf:"passage_char_limit"`
	ContextCharBudget int `yaml:"context_char_budget" koanf:"context_char_budget"`
}

// GenerationConfig is the decoding policy for the answer generator.
type GenerationConfig struct {
	MaxTokens   int     `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature float64 `yaml:"temperature" koanf:"temperature"`
}

// RoutingConfig holds the keyword tables used to pick a corpus for a
// question. Terms are matched case-insensitively as substrings.
type RoutingConfig struct {
	ExistingKeywords []string `yaml:"existing_keywords" koanf:"existing_keywords"`
	DesignKeywords   []string `yaml:"design_keywords" koanf:"design_keywords"`
}

// ServerConfig holds HTTP server and request lifecycle settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAll        bool `yaml:"allow_all" koanf:"allow_all"`
	MaxInFlight     int  `yaml:"max_in_flight" koanf:"max_in_flight"`
	QueryTimeoutSec int  `yaml:"query_timeout_sec" koanf:"query_timeout_sec"`
	GenTimeoutSec   int  `yaml:"gen_timeout_sec" koanf:"gen_timeout_sec"`
	IdleTimeoutSec  int  `yaml:"idle_timeout_sec" koanf:"idle_timeout_sec"`
}
