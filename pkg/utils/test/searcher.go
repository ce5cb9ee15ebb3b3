package testutils

import (
	"context"
	"fmt"

	"github.com/papercomputeco/policyqa/pkg/index"
)

// MockSearcher returns canned neighbors regardless of the query vector.
type MockSearcher struct {
	Neighbors []index.Neighbor

	// Err, when set, is returned from every Search.
	Err error

	// Queries records every query vector received.
	Queries [][]float32
}

func NewMockSearcher(neighbors ...index.Neighbor) *MockSearcher {
	return &MockSearcher{Neighbors: neighbors}
}

func (m *MockSearcher) Search(_ context.Context, query []float32, k int) ([]index.Neighbor, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, fmt.Errorf("mock search failure: %w", m.Err)
	}
	if len(m.Neighbors) < k {
		return m.Neighbors, nil
	}
	return m.Neighbors[:k], nil
}

func (m *MockSearcher) Size() int {
	return len(m.Neighbors)
}

func (m *MockSearcher) Close() error {
	return nil
}
