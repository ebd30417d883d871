package engine

import "errors"

// Request-level failure kinds. Handlers map each to a distinct response so
// callers can tell retry-now (timeout) from back-off (unavailable) from
// retry-shortly (warming up).
var (
	// ErrWarmingUp means the instance has not finished its one-time load.
	// Retryable after a short wait.
	ErrWarmingUp = errors.New("service is warming up")

	// ErrTimeout means a phase exceeded its wall-clock budget. The request
	// was aborted rather than returning a partial answer.
	ErrTimeout = errors.New("request timed out")

	// ErrUnavailable means a backend (embedding or generation) failed after
	// retries. Callers should back off before retrying.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrShuttingDown means the instance is tearing down.
	ErrShuttingDown = errors.New("service is shutting down")
)
