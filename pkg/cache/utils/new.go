// Package cacheutils builds a cache.Driver for the configured provider.
package cacheutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/policyqa/pkg/cache"
	"github.com/papercomputeco/policyqa/pkg/cache/file"
	"github.com/papercomputeco/policyqa/pkg/cache/memory"
	"github.com/papercomputeco/policyqa/pkg/cache/postgres"
	"github.com/papercomputeco/policyqa/pkg/cache/sqlite"
)

type NewDriverOpts struct {
	// ProviderType is one of "file", "memory", "sqlite" or "postgres".
	ProviderType string

	// Target is the file path, sqlite path, or postgres connection string.
	Target string

	Logger *slog.Logger
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (cache.Driver, error) {
	switch o.ProviderType {
	case "", "file":
		return file.NewDriver(o.Target, o.Logger)
	case "memory":
		return memory.NewDriver(), nil
	case "sqlite":
		return sqlite.NewDriver(o.Target)
	case "postgres":
		return postgres.NewDriver(ctx, o.Target)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", o.ProviderType)
	}
}
