// Package answer is the question answering service: cache lookup, retrieval,
// generation, then an asynchronous cache write.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/policyqa/pkg/cache"
	"github.com/papercomputeco/policyqa/pkg/cache/worker"
	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/generate"
	"github.com/papercomputeco/policyqa/pkg/retrieval"
)

const (
	// DefaultTopK is how many chunks are handed to the generator.
	DefaultTopK = 3

	// SourcePreviewLen is the number of characters of each chunk echoed back
	// as a source.
	SourcePreviewLen = 100
)

// Searcher is satisfied by *retrieval.Retriever.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]corpus.Chunk, error)
}

// Response is the answer to one question.
type Response struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Cached  bool     `json:"-"`
}

type Config struct {
	Searcher  Searcher
	Generator generate.Generator

	// Cache is optional. Without it every question is answered fresh.
	Cache cache.Driver

	// Pool performs cache writes. When nil, writes happen inline.
	Pool *worker.Pool

	// TopK defaults to DefaultTopK.
	TopK int

	Logger *slog.Logger
}

type Service struct {
	searcher  Searcher
	generator generate.Generator
	cache     cache.Driver
	pool      *worker.Pool
	topK      int
	logger    *slog.Logger
}

func NewService(c Config) (*Service, error) {
	if c.Searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if c.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}

	return &Service{
		searcher:  c.Searcher,
		generator: c.Generator,
		cache:     c.Cache,
		pool:      c.Pool,
		topK:      c.TopK,
		logger:    c.Logger,
	}, nil
}

// Ask answers question. Cache read failures are logged and treated as misses.
func (s *Service) Ask(ctx context.Context, question string) (*Response, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", retrieval.ErrInvalidQuery)
	}

	key := cache.Key(question)
	if s.cache != nil {
		entry, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("cache lookup failed", "key", key, "error", err)
		case ok:
			s.logger.Debug("cache hit", "key", key)
			return &Response{Answer: entry.Answer, Sources: entry.Sources, Cached: true}, nil
		}
	}

	chunks, err := s.searcher.Search(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	text, err := s.generator.Generate(ctx, question, chunks)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	resp := &Response{Answer: text, Sources: Sources(chunks)}
	s.store(ctx, key, cache.Entry{Answer: resp.Answer, Sources: resp.Sources})
	return resp, nil
}

func (s *Service) store(ctx context.Context, key string, entry cache.Entry) {
	if s.cache == nil {
		return
	}
	if s.pool != nil {
		s.pool.Enqueue(worker.Job{Key: key, Entry: entry})
		return
	}
	if err := s.cache.Set(ctx, key, entry); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Sources previews each chunk as its first SourcePreviewLen characters
// followed by "...".
func Sources(chunks []corpus.Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		r := []rune(c.Text)
		if len(r) > SourcePreviewLen {
			r = r[:SourcePreviewLen]
		}
		out = append(out, string(r)+"...")
	}
	return out
}
