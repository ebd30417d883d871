package vectordb

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ymaeda-ai/insurag/internal/embeddings"
)

// ChromemStore implements Store using chromem-go. With a persistence path
// every upsert is written through to disk, so collections survive process
// restarts — indexing and querying may run as separate processes.
type ChromemStore struct {
	db        *chromem.DB
	embedFunc chromem.EmbeddingFunc

	mu          sync.Mutex
	collections map[string]*chromem.Collection
}

// NewChromemStore opens (or creates) a persistent store under dir. The
// embedder is only consulted for documents added without a precomputed
// vector.
func NewChromemStore(dir string, embedder embeddings.Embedder) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(dir, true)
	if err != nil {
		return nil, fmt.Errorf("opening vector store at %s: %w", dir, err)
	}
	return &ChromemStore{
		db:          db,
		embedFunc:   embeddings.ToChromemFunc(embedder),
		collections: make(map[string]*chromem.Collection),
	}, nil
}

// NewMemoryStore creates a non-persistent store, used in tests.
func NewMemoryStore(embedder embeddings.Embedder) *ChromemStore {
	return &ChromemStore{
		db:          chromem.NewDB(),
		embedFunc:   embeddings.ToChromemFunc(embedder),
		collections: make(map[string]*chromem.Collection),
	}
}

// getOrCreate returns the named collection, creating it on first use.
func (s *ChromemStore) getOrCreate(name string) (*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col, ok := s.collections[name]; ok {
		return col, nil
	}
	col, err := s.db.GetOrCreateCollection(name, nil, s.embedFunc)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", name, err)
	}
	s.collections[name] = col
	return col, nil
}

// get returns the named collection or nil if it does not exist.
func (s *ChromemStore) get(name string) *chromem.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col, ok := s.collections[name]; ok {
		return col
	}
	col := s.db.GetCollection(name, s.embedFunc)
	if col != nil {
		s.collections[name] = col
	}
	return col
}

func (s *ChromemStore) Upsert(ctx context.Context, collection string, docs []Document) error {
	if collection == "" {
		return fmt.Errorf("vectordb: collection name is required")
	}
	if len(docs) == 0 {
		return nil
	}

	col, err := s.getOrCreate(collection)
	if err != nil {
		return err
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        d.ID,
			Content:   d.Text,
			Embedding: d.Embedding,
			Metadata:  metadataToMap(d.Metadata),
		}
	}

	if err := col.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return fmt.Errorf("upserting into %s: %w", collection, err)
	}
	return nil
}

func (s *ChromemStore) Query(ctx context.Context, collection string, queryVector []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}

	col := s.get(collection)
	if col == nil {
		return nil, nil
	}

	// chromem requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := col.QueryEmbedding(ctx, queryVector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			Document: Document{
				ID:       r.ID,
				Text:     r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (s *ChromemStore) DeleteDocument(ctx context.Context, collection, documentID string) error {
	col := s.get(collection)
	if col == nil {
		return nil
	}
	if err := col.Delete(ctx, map[string]string{"document_id": documentID}, nil); err != nil {
		return fmt.Errorf("deleting %s from %s: %w", documentID, collection, err)
	}
	return nil
}

func (s *ChromemStore) Count(collection string) int {
	col := s.get(collection)
	if col == nil {
		return 0
	}
	return col.Count()
}
