package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Chunking.Size != 1000 || cfg.Chunking.Overlap != 200 {
		t.Errorf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("expected default top_k 3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.QueryTimeout() != 30*time.Second {
		t.Errorf("expected 30s query timeout, got %v", cfg.QueryTimeout())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider openai, got %q", cfg.Provider)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".insurag.yml")
	content := `
provider: ollama
model: llama3
chunking:
  size: 500
  overlap: 50
server:
  port: 9100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("expected provider ollama, got %q", cfg.Provider)
	}
	if cfg.Chunking.Size != 500 || cfg.Chunking.Overlap != 50 {
		t.Errorf("unexpected chunking: %+v", cfg.Chunking)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	// Unset keys keep their defaults.
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("expected default top_k 3, got %d", cfg.Retrieval.TopK)
	}
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("INSURAG_PROVIDER", "ollama")
	t.Setenv("INSURAG_MODEL", "llama3")
	t.Setenv("INSURAG_SERVER__PORT", "9200")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("env overlay: expected provider ollama, got %q", cfg.Provider)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("env overlay: expected port 9200, got %d", cfg.Server.Port)
	}
}

func TestValidateRejectsBadChunking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chunking.Size = 200
	cfg.Chunking.Overlap = 200
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when overlap == size")
	}

	cfg.Chunking.Overlap = 300
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when overlap > size")
	}

	cfg.Chunking.Size = 0
	cfg.Chunking.Overlap = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when size is zero")
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "watsonx"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestValidateMockNeedsNoModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	cfg.Model = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider without model should validate: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9300
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.Port != 9300 {
		t.Errorf("round trip lost port: got %d", loaded.Server.Port)
	}
}
