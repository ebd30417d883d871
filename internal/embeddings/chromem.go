package embeddings

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// ToChromemFunc adapts an Embedder to chromem-go's single-text embedding
// function. It is only invoked for documents added without a precomputed
// vector; the indexer normally embeds in batches and supplies vectors
// directly.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vectors, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vectors) == 0 {
			return nil, fmt.Errorf("embedder %s returned no vector", e.Name())
		}
		return vectors[0], nil
	}
}
