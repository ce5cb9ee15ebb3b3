// Package index provides exact k-nearest-neighbor search over chunk vectors.
// Positions returned by every Searcher are corpus positions: neighbor i refers
// to chunk i of the corpus the vectors were built from.
package index

import (
	"context"
	"errors"
)

var (
	// ErrDimensionMismatch is returned when vectors of different lengths are mixed.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorrupt is returned when an encoded index cannot be decoded.
	ErrCorrupt = errors.New("corrupt index data")
)

// Neighbor is one k-NN result.
type Neighbor struct {
	// Position is the corpus position of the matched vector.
	Position int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}

// Searcher answers k-NN queries, nearest first.
type Searcher interface {
	// Search returns at most k neighbors of query ordered by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]Neighbor, error)

	// Size is the number of indexed vectors.
	Size() int

	// Close releases any resources held by the searcher.
	Close() error
}
