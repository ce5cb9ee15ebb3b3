// Package indexutils builds an index.Searcher for the configured vector store.
package indexutils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/policyqa/pkg/index"
	"github.com/papercomputeco/policyqa/pkg/index/qdrant"
	"github.com/papercomputeco/policyqa/pkg/index/sqlitevec"
)

const (
	ProviderFlat   = "flat"
	ProviderSQLite = "sqlite"
	ProviderQdrant = "qdrant"
)

type NewSearcherOpts struct {
	// ProviderType is one of "flat", "sqlite" or "qdrant".
	ProviderType string

	// TargetURL is the sqlite database path or the qdrant address.
	TargetURL string

	// Collection is the qdrant collection name.
	Collection string

	// Flat is the loaded index. Other providers mirror its vectors.
	Flat *index.Flat

	Logger *slog.Logger
}

// NewSearcher returns the flat index itself or a mirror loaded from it.
func NewSearcher(ctx context.Context, o *NewSearcherOpts) (index.Searcher, error) {
	if o.Flat == nil {
		return nil, errors.New("flat index is required")
	}

	switch o.ProviderType {
	case "", ProviderFlat:
		return o.Flat, nil

	case ProviderSQLite:
		path := o.TargetURL
		if path == "" {
			path = ":memory:"
		}
		s, err := sqlitevec.NewSearcher(sqlitevec.Config{
			DBPath:     path,
			Dimensions: o.Flat.Dimension(),
			Logger:     o.Logger,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Load(ctx, vectors(o.Flat)); err != nil {
			s.Close()
			return nil, fmt.Errorf("mirroring index into sqlite-vec: %w", err)
		}
		return s, nil

	case ProviderQdrant:
		s, err := qdrant.NewSearcher(ctx, qdrant.Config{
			Target:     o.TargetURL,
			Collection: o.Collection,
			Dimensions: o.Flat.Dimension(),
			Logger:     o.Logger,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Load(ctx, vectors(o.Flat)); err != nil {
			s.Close()
			return nil, fmt.Errorf("mirroring index into qdrant: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

func vectors(f *index.Flat) [][]float32 {
	out := make([][]float32, f.Size())
	for i := range out {
		out[i] = f.Vector(i)
	}
	return out
}
