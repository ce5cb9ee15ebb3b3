// Package embeddings
package embeddings

import (
	"context"
	"errors"
)

// ErrNotFitted is returned when an embedding model is used before it has been
// fitted to a corpus or loaded from disk.
var ErrNotFitted = errors.New("embedding model not fitted")

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}

// Fitter is an Embedder whose vocabulary is learned from the corpus it embeds.
type Fitter interface {
	Embedder

	// FitTransform learns the model from texts and returns one vector per text,
	// in input order.
	FitTransform(texts []string) ([][]float32, error)

	// Dimension is the length of every vector the fitted model produces.
	Dimension() int
}
