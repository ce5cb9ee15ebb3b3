package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/policyqa/pkg/eventstream"
)

// MockPublisher records published ingest events.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.IngestCompletedEvent

	// Err, when set, is returned from every PublishIngest.
	Err error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishIngest(_ context.Context, event *eventstream.IngestCompletedEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Events() []*eventstream.IngestCompletedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.IngestCompletedEvent(nil), m.events...)
}

func (m *MockPublisher) Close() error {
	return nil
}
