package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ymaeda-ai/insurag/internal/engine"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the query service as tools, so
// an MCP-capable client can search the insurance corpora directly.
type Server struct {
	svc engine.Service
	mcp *server.MCPServer
}

// NewServer creates an MCP server around a query service.
func NewServer(svc engine.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"insurag",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(retrieveDocumentsTool, s.handleRetrieveDocuments)
	s.mcp.AddTool(askQuestionTool, s.handleAskQuestion)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
