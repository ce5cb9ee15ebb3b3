// Package memory is an in-process cache.Driver.
package memory

import (
	"context"
	"sync"

	"github.com/papercomputeco/policyqa/pkg/cache"
)

type Driver struct {
	mu      sync.RWMutex
	entries map[string]cache.Entry
}

func NewDriver() *Driver {
	return &Driver{entries: map[string]cache.Entry{}}
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
	return nil
}

// Len is the number of cached entries.
func (d *Driver) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

func (d *Driver) Close() error {
	return nil
}
