// Package embeddings maps text to fixed-length vectors. The same Embedder
// must be used for indexing a collection and for querying it; similarity
// scores across different embedding models are meaningless.
package embeddings

import "context"

// Embedder generates text embeddings.
type Embedder interface {
	// Embed generates one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of the vectors this embedder produces.
	Dimensions() int

	// Name identifies the embedding model, for manifest bookkeeping.
	Name() string
}
