// Package search provides shared search types and logic for chunk retrieval.
// It is used by the REST API endpoint, the MCP server tool, and the CLI client.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/policyqa/pkg/corpus"
)

// DefaultTopK is used when a request does not specify top_k.
const DefaultTopK = 5

// Searcher is satisfied by *retrieval.Retriever.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]corpus.Chunk, error)
}

// Input represents the input arguments for a search request.
type Input struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// Result is one ranked chunk.
type Result struct {
	Rank   int    `json:"rank"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Output represents the output of a search operation.
type Output struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

// Chunks converts results back into corpus chunks in rank order.
func (o *Output) Chunks() []corpus.Chunk {
	chunks := make([]corpus.Chunk, 0, len(o.Results))
	for _, r := range o.Results {
		chunks = append(chunks, corpus.Chunk{Text: r.Text, Source: r.Source})
	}
	return chunks
}

// Search runs query through searcher and ranks the returned chunks from 1.
func Search(ctx context.Context, searcher Searcher, query string, topK int, logger *slog.Logger) (*Output, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Debug("search request", "query", query, "top_k", topK)

	chunks, err := searcher.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	results := make([]Result, 0, len(chunks))
	for i, c := range chunks {
		results = append(results, Result{Rank: i + 1, Source: c.Source, Text: c.Text})
	}

	return &Output{
		Query:   query,
		Results: results,
		Count:   len(results),
	}, nil
}
