package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ymaeda-ai/insurag/internal/engine"
	"github.com/ymaeda-ai/insurag/internal/router"
)

func parseSourceArg(request mcp.CallToolRequest) (router.Source, error) {
	return router.ParseSource(request.GetString("source", ""))
}

// handleRetrieveDocuments runs routing and vector search.
func (s *Server) handleRetrieveDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	source, err := parseSourceArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.svc.Retrieve(ctx, engine.RetrieveRequest{
		Question: question,
		Source:   source,
		TopK:     request.GetInt("top_k", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	if len(resp.Documents) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No passages found in %s. The corpora may not be indexed yet. Run `insurag index` to index them.",
			strings.Join(resp.SourcesQueried, ", "),
		)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Routed to %s, searched %s.\n\n", resp.DetectedSource, strings.Join(resp.SourcesQueried, ", "))
	for i, doc := range resp.Documents {
		fmt.Fprintf(&b, "## %d. %s (%s, similarity %.3f)\n%s\n\n", i+1, doc.DocumentID, doc.Corpus, doc.Similarity, doc.Text)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleAskQuestion runs the full pipeline and formats the answer with
// its sources.
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	source, err := parseSourceArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.svc.Ask(ctx, engine.QueryRequest{Question: question, Source: source})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString(resp.Answer)
	if len(resp.Sources) > 0 {
		b.WriteString("\n\nSources:\n")
		for _, src := range resp.Sources {
			fmt.Fprintf(&b, "- %s (%s)\n", src.DocumentID, src.Corpus)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
