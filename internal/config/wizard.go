package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to insurag! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select answer-generation provider",
		Items: []string{"openai", "ollama", "mock"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	switch cfg.Provider {
	case ProviderOllama:
		cfg.Model = "llama3"
		cfg.EmbeddingProvider = ProviderOllama
		cfg.EmbeddingModel = "nomic-embed-text"
	case ProviderMock:
		cfg.Model = ""
	}

	// 2. Corpus directories.
	existingPrompt := promptui.Prompt{
		Label:   "Directory with existing/competitor product documents",
		Default: cfg.Corpora.ExistingDir,
	}
	if cfg.Corpora.ExistingDir, err = existingPrompt.Run(); err != nil {
		return nil, fmt.Errorf("existing corpus dir: %w", err)
	}

	designPrompt := promptui.Prompt{
		Label:   "Directory with new product design documents",
		Default: cfg.Corpora.DesignDir,
	}
	if cfg.Corpora.DesignDir, err = designPrompt.Run(); err != nil {
		return nil, fmt.Errorf("design corpus dir: %w", err)
	}

	// 3. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration written to %s\n", path)

	if key := APIKeyEnvVar(cfg.Provider); key != "" && os.Getenv(key) == "" {
		fmt.Printf("Note: set %s before indexing or serving.\n", key)
	}

	return cfg, nil
}
