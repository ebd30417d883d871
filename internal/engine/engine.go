package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/ymaeda-ai/insurag/internal/config"
	"github.com/ymaeda-ai/insurag/internal/embeddings"
	"github.com/ymaeda-ai/insurag/internal/llm"
	"github.com/ymaeda-ai/insurag/internal/prompt"
	"github.com/ymaeda-ai/insurag/internal/retriever"
	"github.com/ymaeda-ai/insurag/internal/router"
	"github.com/ymaeda-ai/insurag/internal/vectordb"
)

// NoAnswerText is returned when retrieval comes back empty. An empty
// corpus is a normal condition, not a failure.
const NoAnswerText = "No relevant information was found in the indexed documents for this question."

// StoreOpener lazily opens the vector store. Opening is deferred to the
// warmup phase because loading persisted collections is the expensive
// part of a cold start.
type StoreOpener func(ctx context.Context) (vectordb.Store, error)

// Engine is the real Service implementation. It owns the warm lifecycle:
// it starts cold, a warmup loads the store exactly once, requests are
// accepted only while ready, and an optional idle watcher drops back to
// cold after a quiet period.
type Engine struct {
	cfg       *config.Config
	embedder  embeddings.Embedder
	provider  llm.Provider
	openStore StoreOpener
	routes    *router.Router

	mu       sync.Mutex
	state    State
	store    vectordb.Store
	retr     *retriever.Retriever
	warmDone chan struct{}
	warmErr  error
	lastUsed time.Time

	idleStop chan struct{}
	idleOnce sync.Once
}

// New builds a cold engine. The generation provider is wrapped with the
// configured in-flight cap so concurrent requests queue instead of
// piling onto the backend.
func New(cfg *config.Config, embedder embeddings.Embedder, provider llm.Provider, openStore StoreOpener) *Engine {
	return &Engine{
		cfg:       cfg,
		embedder:  embedder,
		provider:  llm.NewBoundedProvider(provider, cfg.Server.MaxInFlight),
		openStore: openStore,
		routes:    router.New(cfg.Routing.ExistingKeywords, cfg.Routing.DesignKeywords),
		state:     StateCold,
	}
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Warmup loads the vector store and moves the engine to ready. It is
// idempotent: a ready engine returns immediately, and concurrent callers
// share a single underlying load instead of racing.
func (e *Engine) Warmup(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateReady:
		e.mu.Unlock()
		return nil
	case StateShuttingDown:
		e.mu.Unlock()
		return ErrShuttingDown
	case StateWarming:
		done := e.warmDone
		e.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.warmErr
	}

	e.state = StateWarming
	e.warmDone = make(chan struct{})
	e.warmErr = nil
	done := e.warmDone
	e.mu.Unlock()

	start := time.Now()
	store, err := e.openStore(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	defer close(done)

	if e.state == StateShuttingDown {
		e.warmErr = ErrShuttingDown
		return e.warmErr
	}
	if err != nil {
		e.state = StateCold
		e.warmErr = fmt.Errorf("opening vector store: %w: %v", ErrUnavailable, err)
		return e.warmErr
	}

	e.store = store
	e.retr = retriever.New(e.embedder, store)
	e.state = StateReady
	e.lastUsed = time.Now()
	log.Printf("engine ready in %.2fs", time.Since(start).Seconds())
	return nil
}

// StartIdleWatcher returns the engine to cold after window of inactivity
// so a long-idle instance releases its loaded collections. A zero or
// negative window disables the watcher. The next request triggers a
// re-warm.
func (e *Engine) StartIdleWatcher(window time.Duration) {
	if window <= 0 {
		return
	}
	e.idleOnce.Do(func() {
		e.idleStop = make(chan struct{})
		interval := window / 4
		if interval < time.Second {
			interval = time.Second
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-e.idleStop:
					return
				case <-ticker.C:
					e.maybeIdle(window)
				}
			}
		}()
	})
}

func (e *Engine) maybeIdle(window time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady || time.Since(e.lastUsed) < window {
		return
	}
	e.store = nil
	e.retr = nil
	e.state = StateCold
	log.Printf("engine idle for %s, returning to cold", window)
}

// Close moves the engine to shutting-down. In-flight requests keep their
// snapshot of the retriever; new requests are rejected.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idleStop != nil {
		close(e.idleStop)
		e.idleStop = nil
	}
	e.state = StateShuttingDown
	e.store = nil
	e.retr = nil
	return nil
}

// acquire returns the retriever snapshot when the engine is ready. A cold
// engine kicks off a background re-warm before rejecting, so the caller's
// retry lands on a warming or ready instance.
func (e *Engine) acquire() (*retriever.Retriever, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateReady:
		e.lastUsed = time.Now()
		return e.retr, nil
	case StateWarming:
		return nil, ErrWarmingUp
	case StateShuttingDown:
		return nil, ErrShuttingDown
	default:
		go func() {
			if err := e.Warmup(context.Background()); err != nil && !errors.Is(err, ErrShuttingDown) {
				log.Printf("background warmup failed: %v", err)
			}
		}()
		return nil, ErrWarmingUp
	}
}

func (e *Engine) resolveSource(question string, src router.Source) (router.Source, error) {
	switch src {
	case "", router.SourceAuto:
		return e.routes.Route(question), nil
	case router.SourceExisting, router.SourceDesign, router.SourceBoth:
		return src, nil
	default:
		return "", fmt.Errorf("unknown source %q", src)
	}
}

func (e *Engine) topK(requested int) int {
	if requested > 0 {
		return requested
	}
	return e.cfg.Retrieval.TopK
}

// Retrieve runs routing and vector search without generation. Input is
// validated before acquiring the engine, so a malformed request never
// triggers a re-warm.
func (e *Engine) Retrieve(ctx context.Context, req RetrieveRequest) (*RetrieveResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, errors.New("question must not be empty")
	}
	source, err := e.resolveSource(req.Question, req.Source)
	if err != nil {
		return nil, err
	}
	retr, err := e.acquire()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout())
	defer cancel()

	start := time.Now()
	passages, queried, err := retr.Retrieve(ctx, req.Question, source, e.topK(req.TopK))
	if err != nil {
		return nil, classify("retrieval", err)
	}
	if passages == nil {
		passages = []retriever.Passage{}
	}
	return &RetrieveResponse{
		Documents:      passages,
		SourcesQueried: queried,
		DetectedSource: source,
		RetrievalTime:  seconds(time.Since(start)),
		Success:        true,
	}, nil
}

// Ask runs the full pipeline. Empty retrieval is answered with an
// explicit no-answer text rather than an error, and generation runs
// under its own budget so a stuck backend surfaces as a timeout instead
// of an open-ended hang.
func (e *Engine) Ask(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, errors.New("question must not be empty")
	}
	source, err := e.resolveSource(req.Question, req.Source)
	if err != nil {
		return nil, err
	}
	retr, err := e.acquire()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout())
	defer cancel()

	total := time.Now()
	passages, queried, err := retr.Retrieve(ctx, req.Question, source, e.topK(req.TopK))
	if err != nil {
		return nil, classify("retrieval", err)
	}
	retrievalTime := time.Since(total)

	resp := &QueryResponse{
		Sources:        passages,
		SourcesQueried: queried,
		DetectedSource: source,
		RetrievalTime:  seconds(retrievalTime),
		Success:        true,
	}
	if resp.Sources == nil {
		resp.Sources = []retriever.Passage{}
	}
	if len(passages) == 0 {
		resp.Answer = NoAnswerText
		resp.TotalTime = seconds(time.Since(total))
		return resp, nil
	}

	contextText := prompt.AssembleContext(passages, e.cfg.Retrieval.PassageCharLimit, e.cfg.Retrieval.ContextCharBudget)
	messages := prompt.BuildMessages(req.Question, contextText)

	genCtx, genCancel := context.WithTimeout(ctx, e.cfg.GenerationTimeout())
	defer genCancel()

	genStart := time.Now()
	completion, err := e.provider.Complete(genCtx, llm.CompletionRequest{
		Model:       e.cfg.Model,
		Messages:    messages,
		MaxTokens:   e.cfg.Generation.MaxTokens,
		Temperature: e.cfg.Generation.Temperature,
	})
	if err != nil {
		return nil, classify("generation", err)
	}

	resp.Answer = strings.TrimSpace(completion.Content)
	resp.GenerationTime = seconds(time.Since(genStart))
	resp.TotalTime = seconds(time.Since(total))
	return resp, nil
}

// classify folds backend errors into the request-level taxonomy. Deadline
// overruns are timeouts; everything else from a backend is unavailability.
func classify(phase string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", phase, ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", phase, err)
	}
	return fmt.Errorf("%s: %w: %v", phase, ErrUnavailable, err)
}

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}
