package eventstream

import "context"

// Publisher publishes ingestion events to an event stream backend.
type Publisher interface {
	PublishIngest(ctx context.Context, event *IngestCompletedEvent) error
	Close() error
}
