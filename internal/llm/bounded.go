package llm

import "context"

// BoundedProvider caps the number of in-flight completion requests. The
// backend queues work on a single accelerator; letting an unbounded number
// of requests pile up there grows memory without improving latency.
// Requests over the cap wait for a slot or for their context to expire.
type BoundedProvider struct {
	provider Provider
	slots    chan struct{}
}

// NewBoundedProvider wraps the given provider with a concurrency cap.
// maxInFlight must be positive.
func NewBoundedProvider(provider Provider, maxInFlight int) *BoundedProvider {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &BoundedProvider{
		provider: provider,
		slots:    make(chan struct{}, maxInFlight),
	}
}

func (b *BoundedProvider) Name() string { return b.provider.Name() }

func (b *BoundedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	select {
	case b.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-b.slots }()

	return b.provider.Complete(ctx, req)
}
