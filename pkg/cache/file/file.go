// Package file is a cache.Driver backed by a single JSON object file mapping
// keys to entries. The whole file is rewritten on every Set.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/papercomputeco/policyqa/pkg/cache"
)

// DefaultPath is the cache file name used when none is configured.
const DefaultPath = "cache.json"

type Driver struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]cache.Entry
}

// NewDriver loads path if it exists. An unreadable or malformed file is logged
// and replaced by an empty cache on the next Set.
func NewDriver(path string, logger *slog.Logger) (*Driver, error) {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	d := &Driver{path: path, logger: logger, entries: map[string]cache.Entry{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return d, nil
	case err != nil:
		logger.Warn("ignoring unreadable cache file", "path", path, "error", err)
		return d, nil
	}

	if err := json.Unmarshal(data, &d.entries); err != nil {
		logger.Warn("ignoring malformed cache file", "path", path, "error", err)
		d.entries = map[string]cache.Entry{}
	}
	return d, nil
}

func (d *Driver) Get(_ context.Context, key string) (cache.Entry, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[key]
	return e, ok, nil
}

func (d *Driver) Set(_ context.Context, key string, entry cache.Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[key] = entry
	data, err := json.Marshal(d.entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp := d.path + ".tmp"
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("replacing cache: %w", err)
	}
	return nil
}

func (d *Driver) Close() error {
	return nil
}
