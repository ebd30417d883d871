package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ymaeda-ai/insurag/internal/config"
	"github.com/ymaeda-ai/insurag/internal/engine"
)

func newTestMCP(t *testing.T) *Server {
	t.Helper()
	svc := engine.NewMock(config.DefaultConfig())
	t.Cleanup(func() { svc.Close() })
	return NewServer(svc)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"retrieve_documents", retrieveDocumentsTool, "retrieve_documents"},
		{"ask_question", askQuestionTool, "ask_question"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleRetrieveDocuments(t *testing.T) {
	srv := newTestMCP(t)
	ctx := context.Background()

	t.Run("basic retrieval", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "What are TokyoDrive's pricing tiers?",
		}

		result, err := srv.handleRetrieveDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "design") {
			t.Errorf("result should mention routed corpus, got %q", text)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleRetrieveDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("bad source", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "anything",
			"source":   "everything",
		}

		result, err := srv.handleRetrieveDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown source")
		}
	})
}

func TestHandleAskQuestion(t *testing.T) {
	srv := newTestMCP(t)
	ctx := context.Background()

	t.Run("answer with sources", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "What does MetLife offer?",
		}

		result, err := srv.handleAskQuestion(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Sources:") {
			t.Errorf("answer should list sources, got %q", text)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskQuestion(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}
