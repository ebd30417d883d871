// Package llm abstracts the answer-generation backend. The backend holds
// exclusive access to a compute accelerator, so callers share one Provider
// instance and the bounded wrapper keeps in-flight work capped.
package llm

import "context"

// Provider is the interface for answer-generation backends.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
