// Package qdrant mirrors a flat chunk index into a Qdrant collection and
// answers k-NN queries with exact Euclidean search.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/papercomputeco/policyqa/pkg/index"
)

const (
	// DefaultCollection is used when no collection name is configured.
	DefaultCollection = "policyqa_chunks"

	defaultPort     = 6334
	upsertBatchSize = 256
)

// Searcher implements index.Searcher over a Qdrant collection whose point ids
// are corpus positions.
type Searcher struct {
	client     *qdrant.Client
	collection string
	dims       int
	size       int
	logger     *slog.Logger
}

// Config holds configuration for the Qdrant searcher.
type Config struct {
	// Target is the gRPC address, "host" or "host:port" (default port 6334).
	Target string

	// Collection is the collection to (re)create. Defaults to DefaultCollection.
	Collection string

	// Dimensions is the vector size of the collection.
	Dimensions int

	Logger *slog.Logger
}

// NewSearcher connects to Qdrant and recreates the collection.
func NewSearcher(ctx context.Context, c Config) (*Searcher, error) {
	if c.Target == "" {
		return nil, errors.New("qdrant target is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant dimensions must be positive, got %d", c.Dimensions)
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}

	host, port, err := splitTarget(c.Target)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	exists, err := client.CollectionExists(ctx, c.Collection)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("checking collection %s: %w", c.Collection, err)
	}
	if exists {
		if err := client.DeleteCollection(ctx, c.Collection); err != nil {
			client.Close()
			return nil, fmt.Errorf("deleting stale collection %s: %w", c.Collection, err)
		}
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(c.Dimensions),
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("creating collection %s: %w", c.Collection, err)
	}

	c.Logger.Info("qdrant searcher initialized",
		"target", c.Target,
		"collection", c.Collection,
		"dimensions", c.Dimensions,
	)

	return &Searcher{
		client:     client,
		collection: c.Collection,
		dims:       c.Dimensions,
		logger:     c.Logger,
	}, nil
}

// Load upserts vectors in batches, using each vector's corpus position as its id.
func (s *Searcher) Load(ctx context.Context, vectors [][]float32) error {
	wait := true
	for start := 0; start < len(vectors); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(vectors))

		points := make([]*qdrant.PointStruct, 0, end-start)
		for pos := start; pos < end; pos++ {
			if len(vectors[pos]) != s.dims {
				return fmt.Errorf("%w: vector %d has %d dimensions, want %d", index.ErrDimensionMismatch, pos, len(vectors[pos]), s.dims)
			}
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewIDNum(uint64(pos)),
				Vectors: qdrant.NewVectors(vectors[pos]...),
			})
		}

		if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Wait:           &wait,
			Points:         points,
		}); err != nil {
			return fmt.Errorf("upserting points %d-%d: %w", start, end-1, err)
		}
	}

	s.size += len(vectors)
	s.logger.Debug("loaded vectors into qdrant", "count", len(vectors))
	return nil
}

// Search runs an exact query. Qdrant scores Euclid collections by plain
// distance, which is squared before being returned.
func (s *Searcher) Search(ctx context.Context, query []float32, k int) ([]index.Neighbor, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", index.ErrDimensionMismatch, len(query), s.dims)
	}
	if k <= 0 || s.size == 0 {
		return nil, nil
	}

	limit := uint64(min(k, s.size))
	exact := true
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		Params:         &qdrant.SearchParams{Exact: &exact},
	})
	if err != nil {
		return nil, fmt.Errorf("querying qdrant: %w", err)
	}

	results := make([]index.Neighbor, 0, len(points))
	for _, p := range points {
		results = append(results, index.Neighbor{
			Position: int(p.GetId().GetNum()),
			Distance: p.GetScore() * p.GetScore(),
		})
	}
	return results, nil
}

// Size is the number of loaded vectors.
func (s *Searcher) Size() int {
	return s.size
}

// Close closes the gRPC connection.
func (s *Searcher) Close() error {
	return s.client.Close()
}

func splitTarget(target string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		// no port given
		return target, defaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}
	return host, port, nil
}

var _ index.Searcher = (*Searcher)(nil)
