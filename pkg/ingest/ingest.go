// Package ingest runs the offline pipeline: extract every supported document in
// a directory, chunk it, fit the TF-IDF model over the whole corpus, build the
// flat index, and persist the artifact set.
//
// Documents are processed sequentially in file name order so that repeated runs
// over unchanged input produce identical artifacts.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/papercomputeco/policyqa/pkg/artifact"
	"github.com/papercomputeco/policyqa/pkg/chunker"
	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/embeddings/tfidf"
	"github.com/papercomputeco/policyqa/pkg/eventstream"
	"github.com/papercomputeco/policyqa/pkg/extract"
	"github.com/papercomputeco/policyqa/pkg/index"
)

// Config holds the pipeline collaborators.
type Config struct {
	// DataDir is scanned (non-recursively) for supported documents.
	DataDir string

	Chunker   *chunker.Chunker
	Extractor *extract.Registry

	// MaxFeatures caps the TF-IDF vocabulary; zero uses tfidf.DefaultMaxFeatures.
	MaxFeatures int

	Paths artifact.Paths

	// Publisher is notified after a successful Run. Optional.
	Publisher eventstream.Publisher

	Logger *slog.Logger
}

// Result reports what a run did.
type Result struct {
	// Documents lists the files that contributed chunks, in corpus order.
	Documents []string

	// Failures holds one *extract.Error per skipped file.
	Failures []error

	Chunks     int
	Dimensions int
	Duration   time.Duration
}

// FailedFiles returns the paths of the skipped files.
func (r *Result) FailedFiles() []string {
	paths := make([]string, 0, len(r.Failures))
	for _, err := range r.Failures {
		var extErr *extract.Error
		if errors.As(err, &extErr) {
			paths = append(paths, extErr.Path)
		}
	}
	return paths
}

type Ingester struct {
	config Config
	logger *slog.Logger
}

// NewIngester validates c and returns an Ingester.
func NewIngester(c Config) (*Ingester, error) {
	if c.DataDir == "" {
		return nil, errors.New("data directory is required")
	}
	if c.Chunker == nil {
		return nil, errors.New("chunker is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.Extractor == nil {
		c.Extractor = extract.NewRegistry()
	}

	return &Ingester{config: c, logger: c.Logger}, nil
}

// Build produces an in-memory artifact set without persisting it. A file that
// cannot be extracted is skipped and recorded in Result.Failures; Build only
// fails when no chunks remain, in which case the error joins
// corpus.ErrEmptyCorpus with every per-file failure.
func (i *Ingester) Build(ctx context.Context) (*artifact.Set, *Result, error) {
	start := time.Now()
	res := &Result{}

	files, err := i.scan()
	if err != nil {
		return nil, res, err
	}
	i.logger.Info("found documents", "data_dir", i.config.DataDir, "count", len(files))

	var chunks []corpus.Chunk
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, res, err
		}

		text, err := i.config.Extractor.Extract(ctx, path)
		if err != nil {
			var extErr *extract.Error
			if !errors.As(err, &extErr) {
				err = &extract.Error{Path: path, Err: err}
			}
			i.logger.Warn("skipping document", "path", path, "error", err)
			res.Failures = append(res.Failures, err)
			continue
		}

		docChunks := i.config.Chunker.Chunk(filepath.Base(path), text)
		i.logger.Debug("chunked document", "path", path, "chars", len(text), "chunks", len(docChunks))
		if len(docChunks) == 0 {
			i.logger.Warn("document has no extractable text", "path", path)
			continue
		}

		res.Documents = append(res.Documents, path)
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) == 0 {
		return nil, res, errors.Join(append([]error{corpus.ErrEmptyCorpus}, res.Failures...)...)
	}

	model := tfidf.New(tfidf.WithMaxFeatures(i.config.MaxFeatures))
	vectors, err := model.FitTransform(corpus.Texts(chunks))
	if err != nil {
		return nil, res, fmt.Errorf("fitting embedding model: %w", err)
	}

	flat, err := index.Build(vectors)
	if err != nil {
		return nil, res, fmt.Errorf("building index: %w", err)
	}

	res.Chunks = len(chunks)
	res.Dimensions = flat.Dimension()
	res.Duration = time.Since(start)

	return &artifact.Set{Chunks: chunks, Index: flat, Model: model}, res, nil
}

// Run builds, persists, and announces a new artifact set.
func (i *Ingester) Run(ctx context.Context) (*Result, error) {
	set, res, err := i.Build(ctx)
	if err != nil {
		return res, err
	}

	if err := artifact.Persist(set, i.config.Paths); err != nil {
		return res, err
	}
	res.Duration = res.Duration.Round(time.Millisecond)

	i.logger.Info("ingestion complete",
		"documents", len(res.Documents),
		"failed", len(res.Failures),
		"chunks", res.Chunks,
		"dimensions", res.Dimensions,
		"metadata", i.config.Paths.Metadata,
	)

	if i.config.Publisher != nil {
		event := eventstream.NewIngestCompletedEvent(
			eventstream.EventSource{DataDir: i.config.DataDir},
			eventstream.CorpusMeta{
				Documents:   len(res.Documents),
				Chunks:      res.Chunks,
				Dimensions:  res.Dimensions,
				FailedFiles: res.FailedFiles(),
				DurationMs:  res.Duration.Milliseconds(),
			},
			eventstream.ArtifactPaths{
				Metadata: i.config.Paths.Metadata,
				Index:    i.config.Paths.Index,
				Model:    i.config.Paths.Model,
			},
		)
		// publish failures are logged, not returned
		if err := i.config.Publisher.PublishIngest(ctx, event); err != nil {
			i.logger.Warn("failed to publish ingest event", "error", err)
		}
	}

	return res, nil
}

// scan lists the supported files in DataDir sorted by name.
func (i *Ingester) scan() ([]string, error) {
	entries, err := os.ReadDir(i.config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(i.config.DataDir, e.Name())
		if i.config.Extractor.Supports(path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}
