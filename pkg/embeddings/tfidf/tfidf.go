// Package tfidf implements a bounded-vocabulary TF-IDF vectorizer. The model is
// fitted once over the whole chunk corpus and then reused, unchanged, to embed
// every query.
package tfidf

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/embeddings"
)

// DefaultMaxFeatures caps the vocabulary, and therefore the vector dimension.
const DefaultMaxFeatures = 300

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer is a TF-IDF model. Fitting is not safe for concurrent use;
// once fitted (or unmarshaled) Embed may be called from many goroutines.
type Vectorizer struct {
	maxFeatures int
	stopWords   map[string]struct{}

	mu         sync.RWMutex
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// Option configures a Vectorizer.
type Option func(*Vectorizer)

// WithMaxFeatures overrides DefaultMaxFeatures. Non-positive values are ignored.
func WithMaxFeatures(n int) Option {
	return func(v *Vectorizer) {
		if n > 0 {
			v.maxFeatures = n
		}
	}
}

// WithStopWords replaces the English stop word list.
func WithStopWords(words []string) Option {
	return func(v *Vectorizer) {
		v.stopWords = toSet(words)
	}
}

// New returns an unfitted Vectorizer.
func New(opts ...Option) *Vectorizer {
	v := &Vectorizer{
		maxFeatures: DefaultMaxFeatures,
		stopWords:   toSet(englishStopWords),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// FitTransform learns the vocabulary and IDF weights from texts and returns one
// L2-normalized vector per text, in input order.
//
// The vocabulary keeps the maxFeatures terms with the highest total count over
// the corpus (ties broken alphabetically) and orders the columns alphabetically,
// so the same corpus always produces the same model.
func (v *Vectorizer) FitTransform(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, corpus.ErrEmptyCorpus
	}

	counts := make([]map[string]int, len(texts))
	totals := map[string]int{}
	df := map[string]int{}
	for i, text := range texts {
		counts[i] = v.termCounts(text)
		for term, n := range counts[i] {
			totals[term] += n
			df[term]++
		}
	}

	if len(totals) == 0 {
		return nil, fmt.Errorf("%w: no indexable terms after stop word removal", corpus.ErrEmptyCorpus)
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(texts))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v.mu.Lock()
	v.terms = terms
	v.vocabulary = vocabulary
	v.idf = idf
	v.mu.Unlock()

	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = v.project(counts[i])
	}
	return vectors, nil
}

// Embed projects text into the fitted vector space.
func (v *Vectorizer) Embed(_ context.Context, text string) ([]float32, error) {
	if !v.Fitted() {
		return nil, embeddings.ErrNotFitted
	}
	return v.project(v.termCounts(text)), nil
}

// Close is a no-op.
func (v *Vectorizer) Close() error {
	return nil
}

// Fitted reports whether the model has a vocabulary.
func (v *Vectorizer) Fitted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vocabulary != nil
}

// Dimension is the vocabulary size of the fitted model, or 0 before fitting.
func (v *Vectorizer) Dimension() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.terms)
}

// Vocabulary returns the fitted terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.terms...)
}

// Tokenize lowercases text and returns its terms with stop words removed.
func (v *Vectorizer) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := v.stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (v *Vectorizer) termCounts(text string) map[string]int {
	counts := map[string]int{}
	for _, tok := range v.Tokenize(text) {
		counts[tok]++
	}
	return counts
}

// project weights raw term counts by IDF and L2-normalizes the result.
// Terms outside the vocabulary are ignored.
func (v *Vectorizer) project(counts map[string]int) []float32 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	weights := make([]float64, len(v.terms))
	var norm float64
	for term, n := range counts {
		col, ok := v.vocabulary[term]
		if !ok {
			continue
		}
		w := float64(n) * v.idf[col]
		weights[col] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, len(weights))
	for i, w := range weights {
		if norm > 0 {
			w /= norm
		}
		vec[i] = float32(w)
	}
	return vec
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

var _ embeddings.Fitter = (*Vectorizer)(nil)
