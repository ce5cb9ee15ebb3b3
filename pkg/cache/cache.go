// Package cache memoizes answers keyed by a hash of the raw question string.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
)

// Entry is a previously computed answer.
type Entry struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Driver stores entries by key. Set on an existing key overwrites it.
type Driver interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores entry under key.
	Set(ctx context.Context, key string, entry Entry) error

	// Close releases any resources held by the driver.
	Close() error
}

// Key is the md5 hex digest of the question, byte for byte. Questions that
// differ only in case or whitespace are distinct keys.
func Key(question string) string {
	sum := md5.Sum([]byte(question))
	return hex.EncodeToString(sum[:])
}
