package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ymaeda-ai/insurag/internal/config"
	"github.com/ymaeda-ai/insurag/internal/retriever"
	"github.com/ymaeda-ai/insurag/internal/router"
	"github.com/ymaeda-ai/insurag/internal/vectordb"
)

// Mock is a Service that answers without any backend. It routes questions
// with the real keyword tables and returns canned passages and answers,
// so front-ends can be exercised when no API key or index is available.
type Mock struct {
	routes *router.Router

	mu    sync.Mutex
	state State
}

// NewMock builds a ready mock service using the configured routing tables.
func NewMock(cfg *config.Config) *Mock {
	return &Mock{
		routes: router.New(cfg.Routing.ExistingKeywords, cfg.Routing.DesignKeywords),
		state:  StateReady,
	}
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateShuttingDown
	return nil
}

func (m *Mock) resolve(question string, src router.Source) router.Source {
	if src == "" || src == router.SourceAuto {
		return m.routes.Route(question)
	}
	return src
}

func (m *Mock) checkReady() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateShuttingDown {
		return ErrShuttingDown
	}
	return nil
}

func (m *Mock) passages(source router.Source) ([]retriever.Passage, []string) {
	var out []retriever.Passage
	var queried []string
	if source == router.SourceExisting || source == router.SourceBoth {
		queried = append(queried, vectordb.CollectionExisting)
		out = append(out, retriever.Passage{
			Text:       "[mock] Competitor auto policies in this market bundle roadside assistance with collision coverage.",
			DocumentID: "mock-existing",
			Corpus:     "existing",
			Collection: vectordb.CollectionExisting,
			Similarity: 0.42,
		})
	}
	if source == router.SourceDesign || source == router.SourceBoth {
		queried = append(queried, vectordb.CollectionDesign)
		out = append(out, retriever.Passage{
			Text:       "[mock] The product design draft defines three pricing tiers with usage-based adjustments.",
			DocumentID: "mock-design",
			Corpus:     "design",
			Collection: vectordb.CollectionDesign,
			Similarity: 0.42,
		})
	}
	return out, queried
}

func (m *Mock) Retrieve(ctx context.Context, req RetrieveRequest) (*RetrieveResponse, error) {
	if err := m.checkReady(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question must not be empty")
	}
	source := m.resolve(req.Question, req.Source)
	docs, queried := m.passages(source)
	return &RetrieveResponse{
		Documents:      docs,
		SourcesQueried: queried,
		DetectedSource: source,
		RetrievalTime:  0,
		Success:        true,
	}, nil
}

func (m *Mock) Ask(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if err := m.checkReady(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question must not be empty")
	}
	source := m.resolve(req.Question, req.Source)
	docs, queried := m.passages(source)
	return &QueryResponse{
		Answer:         fmt.Sprintf("[mock answer] This instance runs without a generation backend. Your question %q was routed to %q.", req.Question, source),
		Sources:        docs,
		SourcesQueried: queried,
		DetectedSource: source,
		Success:        true,
	}, nil
}
