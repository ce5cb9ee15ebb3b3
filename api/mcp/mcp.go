// Package mcp provides an MCP (Model Context Protocol) server exposing policy
// search and question answering as tools.
package mcp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/policyqa/api/search"
	"github.com/papercomputeco/policyqa/pkg/answer"
	"github.com/papercomputeco/policyqa/pkg/retrieval"
	"github.com/papercomputeco/policyqa/pkg/utils"
)

type Config struct {
	// Searcher backs the search tool.
	Searcher search.Searcher

	// Service backs the ask tool. Optional; without it only search is offered.
	Service *answer.Service

	// DefaultTopK applies to search calls without top_k.
	DefaultTopK int

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the search and ask tools.
func NewServer(c Config) (*Server, error) {
	if c.Searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.DefaultTopK <= 0 {
		c.DefaultTopK = search.DefaultTopK
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "policyqa",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	if c.Service != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        askToolName,
			Description: askDescription,
		}, s.handleAsk)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// errorResult reports a tool failure to the client rather than as a protocol error.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// failureResult passes invalid-input errors through and hides everything else
// behind a generic message. Details stay in the server log.
func failureResult(action string, err error) *mcp.CallToolResult {
	if errors.Is(err, retrieval.ErrInvalidQuery) {
		return errorResult(fmt.Sprintf("Failed to %s: %v", action, err))
	}
	return errorResult(fmt.Sprintf("Failed to %s: internal server error", action))
}
