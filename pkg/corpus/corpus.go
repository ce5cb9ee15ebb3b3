// Package corpus defines the chunk record shared by ingestion, the persisted
// artifact set, and retrieval.
package corpus

import "errors"

// ErrEmptyCorpus is returned when there are no chunks to fit, index, or search.
var ErrEmptyCorpus = errors.New("empty corpus")

// Chunk is a bounded window of source text tagged with the document it came from.
// Chunks are immutable once created.
type Chunk struct {
	// Text is the chunk body, words joined by single spaces.
	Text string `json:"text"`

	// Source is the file name of the originating document.
	Source string `json:"source"`
}

// Texts returns the chunk bodies in corpus order.
func Texts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
