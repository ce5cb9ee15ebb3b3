// Package bootstrap builds the configured pipeline components for the
// policyqa commands so that ingest, search, ask and serve share one wiring.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/policyqa/pkg/answer"
	"github.com/papercomputeco/policyqa/pkg/artifact"
	"github.com/papercomputeco/policyqa/pkg/cache"
	cacheutils "github.com/papercomputeco/policyqa/pkg/cache/utils"
	"github.com/papercomputeco/policyqa/pkg/cache/worker"
	"github.com/papercomputeco/policyqa/pkg/chunker"
	"github.com/papercomputeco/policyqa/pkg/config"
	"github.com/papercomputeco/policyqa/pkg/credentials"
	"github.com/papercomputeco/policyqa/pkg/eventstream"
	eventstreamutils "github.com/papercomputeco/policyqa/pkg/eventstream/utils"
	"github.com/papercomputeco/policyqa/pkg/extract"
	generateutils "github.com/papercomputeco/policyqa/pkg/generate/utils"
	"github.com/papercomputeco/policyqa/pkg/index"
	indexutils "github.com/papercomputeco/policyqa/pkg/index/utils"
	"github.com/papercomputeco/policyqa/pkg/ingest"
	"github.com/papercomputeco/policyqa/pkg/retrieval"
)

// ErrNoArtifacts is returned when the metadata file does not exist yet.
var ErrNoArtifacts = errors.New("no artifacts found, run policyqa ingest first")

// ArtifactPaths resolves the artifact file names against the artifact dir.
// Absolute file names are used as is.
func ArtifactPaths(c config.ArtifactsConfig) artifact.Paths {
	join := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(c.Dir, name)
	}
	return artifact.Paths{
		Metadata: join(c.MetadataFile),
		Index:    join(c.IndexFile),
		Model:    join(c.ModelFile),
	}
}

// Brokers splits a comma-separated broker list.
func Brokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// NewIngester builds the ingestion pipeline and its event publisher. The
// caller closes the publisher.
func NewIngester(cfg *config.Config, logger *slog.Logger) (*ingest.Ingester, eventstream.Publisher, error) {
	ch, err := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	if err != nil {
		return nil, nil, err
	}

	pub, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.Events.Provider,
		Brokers:      Brokers(cfg.Events.Brokers),
		Topic:        cfg.Events.Topic,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, err
	}

	ing, err := ingest.NewIngester(ingest.Config{
		DataDir:     cfg.Ingest.DataDir,
		Chunker:     ch,
		Extractor:   extract.NewRegistry(),
		MaxFeatures: cfg.Embedding.MaxFeatures,
		Paths:       ArtifactPaths(cfg.Artifacts),
		Publisher:   pub,
		Logger:      logger,
	})
	if err != nil {
		_ = pub.Close()
		return nil, nil, err
	}

	return ing, pub, nil
}

// Query is a loaded artifact set ready to serve searches.
type Query struct {
	Set       *artifact.Set
	Searcher  index.Searcher
	Retriever *retrieval.Retriever
}

// Close releases the search backend.
func (q *Query) Close() error {
	return q.Searcher.Close()
}

// LoadQuery loads the artifact set and mirrors it into the configured
// vector store.
func LoadQuery(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Query, error) {
	paths := ArtifactPaths(cfg.Artifacts)

	set, err := artifact.Load(paths)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w (looked for %s)", ErrNoArtifacts, paths.Metadata)
		}
		return nil, err
	}
	logger.Info("loaded artifacts", "chunks", len(set.Chunks), "dimensions", set.Index.Dimension())

	searcher, err := indexutils.NewSearcher(ctx, &indexutils.NewSearcherOpts{
		ProviderType: cfg.VectorStore.Provider,
		TargetURL:    cfg.VectorStore.Target,
		Collection:   cfg.VectorStore.Collection,
		Flat:         set.Index,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	r, err := retrieval.NewRetriever(retrieval.Config{
		Embedder: set.Model,
		Searcher: searcher,
		Chunks:   set.Chunks,
		Logger:   logger,
	})
	if err != nil {
		_ = searcher.Close()
		return nil, err
	}

	return &Query{Set: set, Searcher: searcher, Retriever: r}, nil
}

// Answering bundles the answer service with the resources it owns.
type Answering struct {
	Service *answer.Service
	cache   cache.Driver
	pool    *worker.Pool
}

// Close drains pending cache writes, then closes the cache.
func (a *Answering) Close() error {
	a.pool.Close()
	return a.cache.Close()
}

// NewAnswering builds the cache, its write pool, the generator and the answer
// service on top of searcher.
func NewAnswering(ctx context.Context, cfg *config.Config, searcher answer.Searcher, logger *slog.Logger) (*Answering, error) {
	// A missing stored key is not fatal; ollama needs none.
	key, err := credentials.ResolveKey(cfg.Generator.APIKeyEnv, "")
	if err != nil {
		logger.Warn("could not read stored credentials", "error", err)
	}
	gen, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{
		ProviderType: cfg.Generator.Provider,
		TargetURL:    cfg.Generator.Target,
		Model:        cfg.Generator.Model,
		APIKey:       key,
		Temperature:  float32(cfg.Generator.Temperature),
		MaxTokens:    cfg.Generator.MaxTokens,
	})
	if err != nil {
		if key == "" && cfg.Generator.APIKeyEnv != "" {
			return nil, fmt.Errorf("creating generator (set %s or run policyqa auth): %w", cfg.Generator.APIKeyEnv, err)
		}
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	driver, err := cacheutils.NewDriver(ctx, &cacheutils.NewDriverOpts{
		ProviderType: cfg.Cache.Provider,
		Target:       cfg.Cache.Target,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	pool, err := worker.NewPool(&worker.Config{Driver: driver, Logger: logger})
	if err != nil {
		_ = driver.Close()
		return nil, err
	}

	svc, err := answer.NewService(answer.Config{
		Searcher:  searcher,
		Generator: gen,
		Cache:     driver,
		Pool:      pool,
		TopK:      cfg.Retrieval.AnswerTopK,
		Logger:    logger,
	})
	if err != nil {
		pool.Close()
		_ = driver.Close()
		return nil, err
	}

	return &Answering{Service: svc, cache: driver, pool: pool}, nil
}
