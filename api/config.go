// Package api provides the HTTP API server for asking questions about the
// ingested policy corpus.
package api

import (
	"context"
	"net/http"

	"github.com/papercomputeco/policyqa/api/search"
	"github.com/papercomputeco/policyqa/pkg/answer"
)

// Answerer is satisfied by *answer.Service.
type Answerer interface {
	Ask(ctx context.Context, question string) (*answer.Response, error)
}

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// Searcher serves GET /v1/search.
	Searcher search.Searcher

	// Answerer serves POST /query.
	Answerer Answerer

	// DefaultTopK applies to searches without top_k.
	DefaultTopK int

	// MCPHandler, when set, is mounted at /mcp.
	MCPHandler http.Handler
}
