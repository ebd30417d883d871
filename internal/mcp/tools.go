package mcp

import "github.com/mark3labs/mcp-go/mcp"

// retrieveDocumentsTool defines the retrieve_documents MCP tool.
var retrieveDocumentsTool = mcp.NewTool("retrieve_documents",
	mcp.WithDescription("Search the indexed insurance corpora semantically. Returns the most relevant passages without generating an answer."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithString("source",
		mcp.Description("Which corpus to search (default auto-routes by keywords)"),
		mcp.Enum("auto", "existing", "design", "both"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Maximum number of passages to return (default 3)"),
	),
)

// askQuestionTool defines the ask_question MCP tool.
var askQuestionTool = mcp.NewTool("ask_question",
	mcp.WithDescription("Ask a question about existing insurance products or the new product design. Retrieves relevant passages and generates a grounded answer."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
	mcp.WithString("source",
		mcp.Description("Which corpus to consult (default auto-routes by keywords)"),
		mcp.Enum("auto", "existing", "design", "both"),
	),
)
