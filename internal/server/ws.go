package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ymaeda-ai/insurag/internal/engine"
	"github.com/ymaeda-ai/insurag/internal/router"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// askRequest is the incoming WebSocket message format.
type askRequest struct {
	Type     string `json:"type"` // "ask" or "retrieve"
	Question string `json:"question"`
	Source   string `json:"source,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

// askResponse is the outgoing WebSocket message format. Exactly one of
// Query and Retrieval is set on a successful response.
type askResponse struct {
	Type      string                   `json:"type"` // "answer", "documents" or "error"
	Query     *engine.QueryResponse    `json:"query,omitempty"`
	Retrieval *engine.RetrieveResponse `json:"retrieval,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req askRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWS(conn, askResponse{Type: "error", Error: "invalid message format"})
			continue
		}
		if req.Question == "" {
			s.sendWS(conn, askResponse{Type: "error", Error: "question is required"})
			continue
		}
		source, err := router.ParseSource(req.Source)
		if err != nil {
			s.sendWS(conn, askResponse{Type: "error", Error: err.Error()})
			continue
		}

		switch req.Type {
		case "", "ask":
			resp, err := s.svc.Ask(r.Context(), engine.QueryRequest{
				Question: req.Question,
				Source:   source,
				TopK:     req.TopK,
			})
			if err != nil {
				s.sendWS(conn, askResponse{Type: "error", Error: err.Error()})
				continue
			}
			s.sendWS(conn, askResponse{Type: "answer", Query: resp})
		case "retrieve":
			resp, err := s.svc.Retrieve(r.Context(), engine.RetrieveRequest{
				Question: req.Question,
				Source:   source,
				TopK:     req.TopK,
			})
			if err != nil {
				s.sendWS(conn, askResponse{Type: "error", Error: err.Error()})
				continue
			}
			s.sendWS(conn, askResponse{Type: "documents", Retrieval: resp})
		default:
			s.sendWS(conn, askResponse{Type: "error", Error: "unknown message type: " + req.Type})
		}
	}
}

func (s *Server) sendWS(conn *websocket.Conn, resp askResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}
