package retrieval

import (
	"slices"
	"strings"

	"github.com/papercomputeco/policyqa/pkg/corpus"
)

// Reranker reorders retrieval candidates. Implementations must not add chunks.
type Reranker interface {
	Rerank(query string, candidates []corpus.Chunk) []corpus.Chunk
}

// TermFrequency scores each candidate by how often the lowercased query terms
// occur as substrings of the lowercased chunk text, and sorts by descending
// score. Equal scores keep their incoming order.
type TermFrequency struct{}

// Score returns the summed substring occurrence count of every query term.
func (TermFrequency) Score(terms []string, text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, term := range terms {
		score += strings.Count(lower, term)
	}
	return score
}

func (t TermFrequency) Rerank(query string, candidates []corpus.Chunk) []corpus.Chunk {
	terms := strings.Fields(strings.ToLower(query))

	type scored struct {
		chunk corpus.Chunk
		score int
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{chunk: c, score: t.Score(terms, c.Text)}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return b.score - a.score
	})

	out := make([]corpus.Chunk, len(ranked))
	for i, r := range ranked {
		out[i] = r.chunk
	}
	return out
}

// Passthrough keeps the distance order.
type Passthrough struct{}

func (Passthrough) Rerank(_ string, candidates []corpus.Chunk) []corpus.Chunk {
	return candidates
}
