package engine

import (
	"context"

	"github.com/ymaeda-ai/insurag/internal/retriever"
	"github.com/ymaeda-ai/insurag/internal/router"
)

// State tracks the instance lifecycle. Requests are only accepted while
// the engine is Ready; everything else maps to a retryable error.
type State string

const (
	StateCold         State = "cold"
	StateWarming      State = "warming"
	StateReady        State = "ready"
	StateShuttingDown State = "shutting_down"
)

// Service is the query surface shared by the real engine and the mock.
// HTTP, MCP and CLI front-ends all speak to this interface.
type Service interface {
	// Retrieve runs routing and vector search without generation.
	Retrieve(ctx context.Context, req RetrieveRequest) (*RetrieveResponse, error)
	// Ask runs the full pipeline: route, retrieve, assemble, generate.
	Ask(ctx context.Context, req QueryRequest) (*QueryResponse, error)
	// State reports the current lifecycle state.
	State() State
	// Close moves the engine to shutting-down and releases resources.
	Close() error
}

// RetrieveRequest asks for the passages that would ground an answer.
// Source defaults to auto-routing when left empty.
type RetrieveRequest struct {
	Question string
	Source   router.Source
	TopK     int
}

// RetrieveResponse mirrors the /retrieve wire shape.
type RetrieveResponse struct {
	Documents      []retriever.Passage `json:"documents"`
	SourcesQueried []string            `json:"sources_queried"`
	DetectedSource router.Source       `json:"detected_source"`
	RetrievalTime  float64             `json:"retrieval_time"`
	Success        bool                `json:"success"`
}

// QueryRequest asks for a generated answer.
type QueryRequest struct {
	Question string
	Source   router.Source
	TopK     int
}

// QueryResponse mirrors the /query wire shape. Timings are wall-clock
// seconds per phase; TotalTime covers the request end to end.
type QueryResponse struct {
	Answer         string              `json:"answer"`
	Sources        []retriever.Passage `json:"sources"`
	SourcesQueried []string            `json:"sources_queried"`
	DetectedSource router.Source       `json:"detected_source"`
	RetrievalTime  float64             `json:"retrieval_time"`
	GenerationTime float64             `json:"generation_time"`
	TotalTime      float64             `json:"total_time"`
	Success        bool                `json:"success"`
}
