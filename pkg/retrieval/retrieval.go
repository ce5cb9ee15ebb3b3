// Package retrieval answers queries against a loaded artifact set with a
// two-stage retrieve-then-rerank pipeline.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/embeddings"
	"github.com/papercomputeco/policyqa/pkg/index"
)

// ErrInvalidQuery is returned for blank queries and non-positive top k.
var ErrInvalidQuery = errors.New("invalid query")

// Config holds the retriever's collaborators. All of them are read-only after
// construction.
type Config struct {
	// Embedder must be the model fitted over Chunks at ingestion time.
	Embedder embeddings.Embedder

	// Searcher returns corpus positions into Chunks.
	Searcher index.Searcher

	Chunks []corpus.Chunk

	// Reranker defaults to TermFrequency.
	Reranker Reranker

	Logger *slog.Logger
}

// Retriever is safe for concurrent use.
type Retriever struct {
	embedder embeddings.Embedder
	searcher index.Searcher
	chunks   []corpus.Chunk
	reranker Reranker
	logger   *slog.Logger
}

// NewRetriever validates c and returns a Retriever.
func NewRetriever(c Config) (*Retriever, error) {
	if c.Embedder == nil {
		return nil, embeddings.ErrNotFitted
	}
	if c.Searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.Reranker == nil {
		c.Reranker = TermFrequency{}
	}

	return &Retriever{
		embedder: c.Embedder,
		searcher: c.Searcher,
		chunks:   c.Chunks,
		reranker: c.Reranker,
		logger:   c.Logger,
	}, nil
}

// Size is the number of chunks in the corpus.
func (r *Retriever) Size() int {
	return len(r.chunks)
}

// Search embeds query, fetches the topK nearest chunks, and reranks them.
// It never returns more than topK chunks or the same chunk twice.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]corpus.Chunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidQuery, topK)
	}
	if len(r.chunks) == 0 {
		return nil, corpus.ErrEmptyCorpus
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	neighbors, err := r.searcher.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	seen := make(map[int]struct{}, len(neighbors))
	candidates := make([]corpus.Chunk, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Position < 0 || n.Position >= len(r.chunks) {
			r.logger.Warn("dropping out of range neighbor",
				"position", n.Position,
				"corpus_size", len(r.chunks),
			)
			continue
		}
		if _, dup := seen[n.Position]; dup {
			continue
		}
		seen[n.Position] = struct{}{}
		candidates = append(candidates, r.chunks[n.Position])
	}

	ranked := r.reranker.Rerank(query, candidates)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	r.logger.Debug("search complete",
		"query", query,
		"top_k", topK,
		"candidates", len(candidates),
		"results", len(ranked),
	)

	return ranked, nil
}
