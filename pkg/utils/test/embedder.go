package testutils

import (
	"context"
	"fmt"

	"github.com/papercomputeco/policyqa/pkg/embeddings"
)

// MockEmbedder maps every query to the same fixed vector, so ranking is left
// entirely to the searcher under test.
type MockEmbedder struct {
	Vector []float32

	// Err, when set, is returned from every Embed.
	Err error

	// Texts records every query text received.
	Texts []string
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Vector: []float32{0.1, 0.2, 0.3}}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Texts = append(m.Texts, text)
	if m.Err != nil {
		return nil, fmt.Errorf("mock embed failure: %w", m.Err)
	}
	return append([]float32(nil), m.Vector...), nil
}

func (m *MockEmbedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*MockEmbedder)(nil)
