package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeIngestCompleted is emitted after an artifact set is persisted.
	EventTypeIngestCompleted = "policyqa.ingest.completed"
)

// IngestCompletedEvent is a transport-neutral event payload for a finished
// ingestion run.
type IngestCompletedEvent struct {
	SchemaVersion int           `json:"schema_version"`
	EventType     string        `json:"event_type"`
	EventID       string        `json:"event_id"`
	EmittedAt     time.Time     `json:"emitted_at"`
	Source        EventSource   `json:"source"`
	Corpus        CorpusMeta    `json:"corpus"`
	Artifacts     ArtifactPaths `json:"artifacts"`
}

// EventSource identifies the ingested document directory.
type EventSource struct {
	DataDir string `json:"data_dir"`
}

// CorpusMeta summarizes what the run indexed.
type CorpusMeta struct {
	Documents   int      `json:"documents"`
	Chunks      int      `json:"chunks"`
	Dimensions  int      `json:"dimensions"`
	FailedFiles []string `json:"failed_files,omitempty"`
	DurationMs  int64    `json:"duration_ms"`
}

// ArtifactPaths locates the persisted artifact set.
type ArtifactPaths struct {
	Metadata string `json:"metadata"`
	Index    string `json:"index"`
	Model    string `json:"model"`
}

// NewIngestCompletedEvent fills the envelope fields.
func NewIngestCompletedEvent(source EventSource, corpus CorpusMeta, artifacts ArtifactPaths) *IngestCompletedEvent {
	return &IngestCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeIngestCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Corpus:        corpus,
		Artifacts:     artifacts,
	}
}
