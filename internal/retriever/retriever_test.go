package retriever

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/ymaeda-ai/insurag/internal/router"
	"github.com/ymaeda-ai/insurag/internal/vectordb"
)

type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dims)
		for j, ch := range text {
			vec[(int(ch)+j)%m.dims]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		for j := range vec {
			vec[j] = float32(float64(vec[j]) / norm)
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func seedStore(t *testing.T, e *mockEmbedder) *vectordb.ChromemStore {
	t.Helper()
	ctx := context.Background()
	store := vectordb.NewMemoryStore(e)

	existing := []string{
		"MetLife auto insurance annual premium is 100000 yen",
		"AIG coverage includes roadside assistance",
		"Sonpo market share grew last year",
		"Japan Post policy for rural drivers",
	}
	design := []string{
		"TokyoDrive annual premium is 100000 yen",
		"TokyoDrive pricing tier gold includes theft protection",
		"TokyoDrive pricing tier silver is the entry plan",
	}

	upsert := func(collection, corpus string, texts []string) {
		vectors, err := e.Embed(ctx, texts)
		if err != nil {
			t.Fatal(err)
		}
		docs := make([]vectordb.Document, len(texts))
		for i, text := range texts {
			docs[i] = vectordb.Document{
				ID:        "seed.txt:" + string(rune('0'+i)),
				Text:      text,
				Embedding: vectors[i],
				Metadata:  vectordb.Metadata{DocumentID: "seed.txt", Corpus: corpus, ChunkIndex: i},
			}
		}
		if err := store.Upsert(ctx, collection, docs); err != nil {
			t.Fatal(err)
		}
	}
	upsert(vectordb.CollectionExisting, "existing", existing)
	upsert(vectordb.CollectionDesign, "design", design)
	return store
}

func TestRetrieveSingleSource(t *testing.T) {
	e := &mockEmbedder{dims: 64}
	r := New(e, seedStore(t, e))

	passages, queried, err := r.Retrieve(context.Background(), "MetLife premium", router.SourceExisting, 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) == 0 || len(passages) > 3 {
		t.Fatalf("expected 1..3 passages, got %d", len(passages))
	}
	for _, p := range passages {
		if p.Corpus != "existing" {
			t.Errorf("existing retrieval returned %q passage", p.Corpus)
		}
	}
	if len(queried) != 1 || queried[0] != vectordb.CollectionExisting {
		t.Errorf("unexpected queried list %v", queried)
	}
}

func TestRetrieveBothSplitsTopK(t *testing.T) {
	e := &mockEmbedder{dims: 64}
	r := New(e, seedStore(t, e))

	passages, queried, err := r.Retrieve(context.Background(), "annual premium", router.SourceBoth, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) > 5 {
		t.Fatalf("top_k bound violated: %d passages", len(passages))
	}

	var nExisting, nDesign int
	for _, p := range passages {
		switch p.Corpus {
		case "existing":
			nExisting++
		case "design":
			nDesign++
		}
	}
	// ceil(5/2)=3 from existing, floor(5/2)=2 from design.
	if nExisting > 3 || nDesign > 2 {
		t.Errorf("split violated: %d existing, %d design", nExisting, nDesign)
	}
	if len(queried) != 2 {
		t.Errorf("expected both collections queried, got %v", queried)
	}

	// Existing passages come first; each collection's internal ranking is
	// preserved, with no re-ranking across the boundary.
	sawDesign := false
	for _, p := range passages {
		if p.Corpus == "design" {
			sawDesign = true
		} else if sawDesign {
			t.Error("existing passage after design passage: concatenation order broken")
		}
	}
}

func TestRetrieveTopKOne(t *testing.T) {
	e := &mockEmbedder{dims: 64}
	r := New(e, seedStore(t, e))

	// ceil(1/2)=1 existing, floor(1/2)=0 design: the design collection is
	// not queried at all.
	passages, queried, err := r.Retrieve(context.Background(), "premium", router.SourceBoth, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) > 1 {
		t.Errorf("expected at most 1 passage, got %d", len(passages))
	}
	if len(queried) != 1 || queried[0] != vectordb.CollectionExisting {
		t.Errorf("expected only existing queried, got %v", queried)
	}
}

func TestRetrieveEmptyCollections(t *testing.T) {
	e := &mockEmbedder{dims: 16}
	r := New(e, vectordb.NewMemoryStore(e))

	passages, queried, err := r.Retrieve(context.Background(), "anything at all", router.SourceBoth, 4)
	if err != nil {
		t.Fatalf("empty collections must not error: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("expected no passages, got %d", len(passages))
	}
	if len(queried) != 2 {
		t.Errorf("both collections should still be reported as queried: %v", queried)
	}
}

func TestRetrieveRejectsUnresolvedSource(t *testing.T) {
	e := &mockEmbedder{dims: 16}
	r := New(e, vectordb.NewMemoryStore(e))

	if _, _, err := r.Retrieve(context.Background(), "q", router.SourceAuto, 3); err == nil {
		t.Error("expected error for unresolved auto source")
	}
	if _, _, err := r.Retrieve(context.Background(), "q", router.SourceExisting, 0); err == nil {
		t.Error("expected error for non-positive top_k")
	}
}

func TestRetrieveIsolation(t *testing.T) {
	e := &mockEmbedder{dims: 64}
	r := New(e, seedStore(t, e))

	passages, _, err := r.Retrieve(context.Background(), "TokyoDrive pricing tier", router.SourceDesign, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range passages {
		if p.Corpus != "design" {
			t.Errorf("design retrieval leaked %q passage: %s", p.Corpus, p.Text)
		}
		if !strings.Contains(p.Text, "TokyoDrive") {
			t.Errorf("unexpected passage content: %s", p.Text)
		}
	}
}
