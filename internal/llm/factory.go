package llm

import (
	"fmt"
	"os"
)

// NewProvider creates an LLM provider for the given provider type and
// model. Supported types: "openai", "ollama".
func NewProvider(providerType, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "ollama":
		return NewOllamaProvider(os.Getenv("OLLAMA_HOST"), model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
