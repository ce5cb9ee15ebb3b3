package tfidf

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"
)

// modelVersion is bumped whenever the encoded layout changes.
const modelVersion = 1

// ErrModelVersion is returned when decoding a model written by an incompatible version.
var ErrModelVersion = errors.New("unsupported tfidf model version")

type encodedModel struct {
	Version     int
	MaxFeatures int
	Terms       []string
	IDF         []float64
	StopWords   []string
}

// MarshalBinary encodes the fitted model with gob.
func (v *Vectorizer) MarshalBinary() ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	stop := make([]string, 0, len(v.stopWords))
	for w := range v.stopWords {
		stop = append(stop, w)
	}
	sort.Strings(stop)

	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(encodedModel{
		Version:     modelVersion,
		MaxFeatures: v.maxFeatures,
		Terms:       v.terms,
		IDF:         v.idf,
		StopWords:   stop,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding tfidf model: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores a model written by MarshalBinary.
func (v *Vectorizer) UnmarshalBinary(data []byte) error {
	var m encodedModel
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return fmt.Errorf("decoding tfidf model: %w", err)
	}
	if m.Version != modelVersion {
		return fmt.Errorf("%w: %d", ErrModelVersion, m.Version)
	}
	if len(m.Terms) != len(m.IDF) {
		return fmt.Errorf("decoding tfidf model: %d terms but %d idf weights", len(m.Terms), len(m.IDF))
	}

	vocabulary := make(map[string]int, len(m.Terms))
	for i, term := range m.Terms {
		vocabulary[term] = i
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.maxFeatures = m.MaxFeatures
	v.stopWords = toSet(m.StopWords)
	v.terms = m.Terms
	v.idf = m.IDF
	v.vocabulary = vocabulary
	return nil
}
