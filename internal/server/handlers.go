package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ymaeda-ai/insurag/internal/engine"
	"github.com/ymaeda-ai/insurag/internal/router"
)

// queryPayload is the request body shared by /retrieve and the /query
// endpoints. Source is ignored on the endpoints that pin it.
type queryPayload struct {
	Question string `json:"question"`
	Source   string `json:"source,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Retry   bool   `json:"retry,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: writing response: %v", err)
	}
}

// writeError maps the service error taxonomy onto HTTP statuses. Warming
// and shutdown are retryable 503s, timeouts are 504, backend failures
// are 502, anything else is the caller's fault.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrWarmingUp):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "service is warming up, retry shortly", Retry: true,
		})
	case errors.Is(err, engine.ErrShuttingDown):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "service is shutting down",
		})
	case errors.Is(err, engine.ErrTimeout):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Error: err.Error(), Retry: true,
		})
	case errors.Is(err, engine.ErrUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: err.Error(), Retry: true,
		})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}

func decodePayload(r *http.Request) (*queryPayload, error) {
	var p queryPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, errors.New("invalid JSON body: " + err.Error())
	}
	if p.Question == "" {
		return nil, errors.New("question is required")
	}
	return &p, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"state":  string(s.svc.State()),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "insurag",
		"state":   string(s.svc.State()),
		"endpoints": []string{
			"GET /health",
			"POST /retrieve",
			"POST /query",
			"POST /query/existing",
			"POST /query/design",
			"POST /query/both",
			"GET /ws/ask",
		},
	})
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		writeError(w, err)
		return
	}
	source, err := router.ParseSource(p.Source)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.svc.Retrieve(r.Context(), engine.RetrieveRequest{
		Question: p.Question,
		Source:   source,
		TopK:     p.TopK,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleQuery answers a question. forced pins the corpus for the
// /query/{existing,design,both} endpoints; the bare /query endpoint
// accepts a source in the body and auto-routes by default.
func (s *Server) handleQuery(forced string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decodePayload(r)
		if err != nil {
			writeError(w, err)
			return
		}
		raw := p.Source
		if forced != "" {
			raw = forced
		}
		source, err := router.ParseSource(raw)
		if err != nil {
			writeError(w, err)
			return
		}

		resp, err := s.svc.Ask(r.Context(), engine.QueryRequest{
			Question: p.Question,
			Source:   source,
			TopK:     p.TopK,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
