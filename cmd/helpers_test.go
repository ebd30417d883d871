package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withConfigFile(t *testing.T, contents string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".insurag.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	orig := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = orig })
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	withConfigFile(t, "retrieval:\n  top_k: 0\n")

	_, err := loadConfig()
	if err == nil {
		t.Fatal("expected invalid config to be rejected before any command runs")
	}
	if !strings.Contains(err.Error(), "top_k") {
		t.Errorf("error should name the bad field, got %v", err)
	}
}

func TestLoadConfigRejectsZeroTimeout(t *testing.T) {
	withConfigFile(t, "server:\n  query_timeout_sec: 0\n")

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected zero query timeout to be rejected")
	}
}

func TestLoadConfigAcceptsDefaults(t *testing.T) {
	withConfigFile(t, "provider: mock\n")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Retrieval.TopK <= 0 {
		t.Errorf("defaults should have a positive top_k, got %d", cfg.Retrieval.TopK)
	}
}
