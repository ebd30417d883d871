package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTextAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "metlife.txt", "MetLife auto insurance. The annual premium is 100000 yen.")
	writeFile(t, dir, "notes/overview.md", "# Overview\n\nSome **bold** product notes.")
	writeFile(t, dir, "image.png", "\x89PNG")

	docs, skipped, err := Load(dir, nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if len(skipped) != 1 || skipped[0].Path != "image.png" {
		t.Errorf("expected image.png skipped, got %+v", skipped)
	}

	byID := make(map[string]Document)
	for _, d := range docs {
		byID[d.ID] = d
	}

	txt, ok := byID["metlife.txt"]
	if !ok {
		t.Fatal("metlife.txt not loaded")
	}
	if txt.Format != FormatText || !strings.Contains(txt.Text, "100000 yen") {
		t.Errorf("unexpected text document: %+v", txt)
	}

	mdDoc, ok := byID["notes/overview.md"]
	if !ok {
		t.Fatal("notes/overview.md not loaded")
	}
	if mdDoc.Format != FormatMarkdown {
		t.Errorf("expected markdown format, got %q", mdDoc.Format)
	}
	if strings.Contains(mdDoc.Text, "#") || strings.Contains(mdDoc.Text, "**") {
		t.Errorf("markdown markup not stripped: %q", mdDoc.Text)
	}
	if !strings.Contains(mdDoc.Text, "Overview") || !strings.Contains(mdDoc.Text, "bold") {
		t.Errorf("markdown text content lost: %q", mdDoc.Text)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "absent"), nil, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadIncludeExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "keep me")
	writeFile(t, dir, "drafts/drop.txt", "drop me")

	docs, _, err := Load(dir, []string{"**/*.txt"}, []string{"drafts/**"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "keep.txt" {
		t.Errorf("expected only keep.txt, got %+v", docs)
	}
}

func TestLoadSkipsEmptyDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "   \n  ")

	docs, skipped, err := Load(dir, nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
	if len(skipped) != 1 {
		t.Errorf("expected 1 skipped, got %d", len(skipped))
	}
}

func TestContentHashStable(t *testing.T) {
	a := Document{Text: "same text"}
	b := Document{Text: "same text"}
	c := Document{Text: "other text"}
	if a.ContentHash() != b.ContentHash() {
		t.Error("identical text should hash identically")
	}
	if a.ContentHash() == c.ContentHash() {
		t.Error("different text should hash differently")
	}
}

func TestMarkdownToTextCodeBlock(t *testing.T) {
	src := []byte("Intro\n\n```\npremium = 100000\n```\n\nOutro")
	out := MarkdownToText(src)
	if !strings.Contains(out, "premium = 100000") {
		t.Errorf("code block content lost: %q", out)
	}
	if strings.Contains(out, "```") {
		t.Errorf("code fence not stripped: %q", out)
	}
}
