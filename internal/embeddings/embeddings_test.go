package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// flakyEmbedder fails a fixed number of times before succeeding.
type flakyEmbedder struct {
	failures int
	calls    int
}

func (f *flakyEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("backend unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *flakyEmbedder) Dimensions() int { return 2 }
func (f *flakyEmbedder) Name() string    { return "flaky" }

func TestRetryEmbedderRecovers(t *testing.T) {
	inner := &flakyEmbedder{failures: 2}
	r := NewRetryEmbedder(inner, 3)

	vectors, err := r.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 2 {
		t.Errorf("expected 2 vectors, got %d", len(vectors))
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetryEmbedderGivesUp(t *testing.T) {
	inner := &flakyEmbedder{failures: 10}
	r := NewRetryEmbedder(inner, 3)

	if _, err := r.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if inner.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", inner.calls)
	}
}

func TestRetryEmbedderHonorsCancellation(t *testing.T) {
	inner := &flakyEmbedder{failures: 10}
	r := NewRetryEmbedder(inner, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Embed(ctx, []string{"a"}); err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if inner.calls > 1 {
		t.Errorf("expected no retries after cancellation, got %d calls", inner.calls)
	}
}

func TestOllamaEmbedderBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := ollamaEmbedResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float32{float32(i), 1}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 2, srv.URL)
	vectors, err := e.Embed(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}
	if vectors[2][0] != 2 {
		t.Errorf("vectors not in input order: %v", vectors)
	}
}

func TestOllamaEmbedderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("missing", 2, srv.URL)
	if _, err := e.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
