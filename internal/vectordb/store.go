// Package vectordb persists chunk embeddings in named collections and
// serves nearest-neighbor queries over them. The two corpora live in
// independent collections that never share chunks: a query against one
// collection only ever returns chunks indexed into it.
package vectordb

import "context"

// Collection names, one per corpus.
const (
	CollectionExisting = "existing_products"
	CollectionDesign   = "product_design"
)

// CollectionForCorpus maps a corpus tag ("existing" or "design") to its
// collection name. Unknown tags return "".
func CollectionForCorpus(corpus string) string {
	switch corpus {
	case "existing":
		return CollectionExisting
	case "design":
		return CollectionDesign
	default:
		return ""
	}
}

// Store holds chunk vectors plus text and provenance, partitioned into
// named collections. The indexer is the only writer; query-time access is
// read-only and safe for concurrent use.
type Store interface {
	// Upsert adds or replaces documents in a collection, keyed by ID.
	// Re-upserting an existing ID replaces its content.
	Upsert(ctx context.Context, collection string, docs []Document) error

	// Query returns at most k results ordered by descending similarity to
	// the query vector. A nonexistent or empty collection yields an empty
	// slice, not an error.
	Query(ctx context.Context, collection string, queryVector []float32, k int) ([]Result, error)

	// DeleteDocument removes every chunk belonging to the given source
	// document from a collection.
	DeleteDocument(ctx context.Context, collection, documentID string) error

	// Count returns the number of stored chunks in a collection
	// (0 for a collection that does not exist yet).
	Count(collection string) int
}
