package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apisearch "github.com/papercomputeco/policyqa/api/search"
)

var (
	searchToolName    = "search"
	searchDescription = "Search the ingested HR policy documents. Returns the most relevant passages for the query text, each with its source file name."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant policy passages"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, apisearch.Output, error) {
	logger := s.config.Logger

	topK := input.TopK
	if topK <= 0 {
		topK = s.config.DefaultTopK
	}

	output, err := apisearch.Search(ctx, s.config.Searcher, input.Query, topK, logger)
	if err != nil {
		logger.Error("MCP search failed", "error", err)
		return failureResult("search", err), apisearch.Output{}, nil
	}

	// Structured tool output is mirrored as JSON text for clients that only
	// read content blocks.
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", "error", err)
		return failureResult("serialize results", err), apisearch.Output{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, *output, nil
}
