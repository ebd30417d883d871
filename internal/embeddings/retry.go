package embeddings

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultRetryAttempts = 3
	initialRetryDelay    = 500 * time.Millisecond
)

// RetryEmbedder wraps an Embedder with a small fixed number of retries and
// exponential backoff. Backend errors are transient often enough that one
// or two retries salvage most indexing runs; persistent failures surface to
// the caller after the final attempt.
type RetryEmbedder struct {
	inner    Embedder
	attempts int
}

// NewRetryEmbedder wraps the given embedder. attempts <= 0 uses the default.
func NewRetryEmbedder(inner Embedder, attempts int) *RetryEmbedder {
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	return &RetryEmbedder{inner: inner, attempts: attempts}
}

func (r *RetryEmbedder) Name() string    { return r.inner.Name() }
func (r *RetryEmbedder) Dimensions() int { return r.inner.Dimensions() }

func (r *RetryEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	delay := initialRetryDelay

	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		vectors, err := r.inner.Embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", r.attempts, lastErr)
}
