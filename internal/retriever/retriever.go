// Package retriever pulls ranked passages for a question from one or both
// collections. The question is embedded exactly once per request with the
// same embedder that indexed the collections.
//
// When both collections are queried, each keeps its own internal ranking
// and the result lists are concatenated, existing first. Similarity scores
// from different collections are not calibrated against each other, so no
// cross-collection re-ranking is attempted.
package retriever

import (
	"context"
	"fmt"

	"github.com/ymaeda-ai/insurag/internal/embeddings"
	"github.com/ymaeda-ai/insurag/internal/router"
	"github.com/ymaeda-ai/insurag/internal/vectordb"
)

// Passage is one retrieved chunk with its provenance, created per request
// and never persisted.
type Passage struct {
	Text       string  `json:"content"`
	DocumentID string  `json:"document_id"`
	Corpus     string  `json:"corpus"`
	Collection string  `json:"collection"`
	Similarity float32 `json:"similarity"`
}

// Retriever performs nearest-neighbor search per collection.
type Retriever struct {
	embedder embeddings.Embedder
	store    vectordb.Store
}

// New creates a Retriever. The embedder must be the one the collections
// were indexed with.
func New(embedder embeddings.Embedder, store vectordb.Store) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns up to topK passages for the question from the selected
// source. For SourceBoth, topK is split ceil/floor between the existing and
// design collections. An empty result is a valid outcome for sparse
// corpora, not an error. The returned collection list names every
// collection that was queried, found or not.
func (r *Retriever) Retrieve(ctx context.Context, question string, source router.Source, topK int) ([]Passage, []string, error) {
	if topK <= 0 {
		return nil, nil, fmt.Errorf("retriever: top_k must be positive, got %d", topK)
	}

	vectors, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, nil, fmt.Errorf("embedder returned %d vectors for the question", len(vectors))
	}
	queryVector := vectors[0]

	type target struct {
		collection string
		k          int
	}

	var targets []target
	switch source {
	case router.SourceExisting:
		targets = []target{{vectordb.CollectionExisting, topK}}
	case router.SourceDesign:
		targets = []target{{vectordb.CollectionDesign, topK}}
	case router.SourceBoth:
		// Ceil to existing, floor to design: 5 -> 3 + 2.
		targets = []target{
			{vectordb.CollectionExisting, (topK + 1) / 2},
			{vectordb.CollectionDesign, topK / 2},
		}
	default:
		return nil, nil, fmt.Errorf("retriever: source must be resolved before retrieval, got %q", source)
	}

	var passages []Passage
	var queried []string
	for _, tgt := range targets {
		if tgt.k == 0 {
			continue
		}
		queried = append(queried, tgt.collection)

		results, err := r.store.Query(ctx, tgt.collection, queryVector, tgt.k)
		if err != nil {
			return nil, nil, fmt.Errorf("querying %s: %w", tgt.collection, err)
		}
		for _, res := range results {
			passages = append(passages, Passage{
				Text:       res.Document.Text,
				DocumentID: res.Document.Metadata.DocumentID,
				Corpus:     res.Document.Metadata.Corpus,
				Collection: tgt.collection,
				Similarity: res.Similarity,
			})
		}
	}

	return passages, queried, nil
}
