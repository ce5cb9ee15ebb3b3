package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/policyqa/pkg/corpus"
)

// MockGenerator returns Answer for every call and records what it was given.
type MockGenerator struct {
	Answer string
	Err    error

	mu     sync.Mutex
	calls  int
	chunks [][]corpus.Chunk
}

func NewMockGenerator(answer string) *MockGenerator {
	return &MockGenerator{Answer: answer}
}

func (m *MockGenerator) Generate(_ context.Context, _ string, chunks []corpus.Chunk) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.chunks = append(m.chunks, chunks)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Answer, nil
}

// Calls is the number of Generate invocations.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastChunks is the context passed to the most recent call.
func (m *MockGenerator) LastChunks() []corpus.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.chunks) == 0 {
		return nil
	}
	return m.chunks[len(m.chunks)-1]
}
