// Package chunker splits cleaned document text into overlapping word windows.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papercomputeco/policyqa/pkg/corpus"
)

const (
	// DefaultSize is the default window size in words.
	DefaultSize = 500

	// DefaultOverlap is the default number of words shared by consecutive windows.
	DefaultOverlap = 50
)

// ErrInvalidConfig is returned when the window stride would be less than one word.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// Chunker slides a fixed-size word window across text.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. The overlap must be smaller than the size so that the
// window always advances.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidConfig, overlap, size)
	}

	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the window size in words.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of words shared by consecutive windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Clean collapses every whitespace run to a single space and trims the ends.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split returns the windows over the whitespace-delimited words of text.
// The last window is the first one that reaches the end of the word sequence,
// so it may be shorter than the configured size.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.size - c.overlap
	chunks := make([]string, 0, len(words)/stride+1)
	for start := 0; start < len(words); start += stride {
		end := min(start+c.size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))

		if end == len(words) {
			break
		}
	}

	return chunks
}

// Chunk cleans text, splits it, and tags every window with source.
func (c *Chunker) Chunk(source, text string) []corpus.Chunk {
	windows := c.Split(Clean(text))
	chunks := make([]corpus.Chunk, len(windows))
	for i, w := range windows {
		chunks[i] = corpus.Chunk{Text: w, Source: source}
	}
	return chunks
}
