// Package sqlitevec mirrors a flat chunk index into SQLite with sqlite-vec and
// answers k-NN queries with a vec0 MATCH.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/policyqa/pkg/index"
)

// Searcher implements index.Searcher over a vec0 virtual table. The vec0 rowid
// of a vector is its corpus position plus one.
type Searcher struct {
	db     *sql.DB
	dims   int
	size   int
	logger *slog.Logger
}

// Config holds configuration for the sqlite-vec searcher.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions of the mirrored vectors.
	Dimensions int

	Logger *slog.Logger
}

// NewSearcher opens the database and recreates the vec0 table.
func NewSearcher(c Config) (*Searcher, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, errors.New("database path is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("sqlite-vec dimensions must be positive, got %d", c.Dimensions)
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// vec0 tables in ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	if _, err := db.Exec(`DROP TABLE IF EXISTS chunk_embeddings`); err != nil {
		db.Close()
		return nil, fmt.Errorf("dropping vec0 table: %w", err)
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE chunk_embeddings USING vec0(embedding float[%d])`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	c.Logger.Info("sqlite-vec searcher initialized",
		"db_path", c.DBPath,
		"dimensions", c.Dimensions,
		"vec_version", vecVersion,
	)

	return &Searcher{
		db:     db,
		dims:   c.Dimensions,
		logger: c.Logger,
	}, nil
}

// Load inserts vectors in corpus order.
func (s *Searcher) Load(ctx context.Context, vectors [][]float32) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunk_embeddings(rowid, embedding) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for pos, v := range vectors {
		if len(v) != s.dims {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d", index.ErrDimensionMismatch, pos, len(v), s.dims)
		}
		if _, err := stmt.ExecContext(ctx, int64(pos)+1, serializeFloat32(v)); err != nil {
			return fmt.Errorf("inserting vector %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.size += len(vectors)
	s.logger.Debug("loaded vectors into sqlite-vec", "count", len(vectors))
	return nil
}

// Search runs a vec0 KNN query. sqlite-vec reports plain L2 distance, which is
// squared before being returned.
func (s *Searcher) Search(ctx context.Context, query []float32, k int) ([]index.Neighbor, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", index.ErrDimensionMismatch, len(query), s.dims)
	}
	if k <= 0 || s.size == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, distance
		FROM chunk_embeddings
		WHERE embedding MATCH ?
			AND k = ?
		ORDER BY distance, rowid
	`, serializeFloat32(query), min(k, s.size))
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var results []index.Neighbor
	for rows.Next() {
		var rowID int64
		var distance float64
		if err := rows.Scan(&rowID, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}
		results = append(results, index.Neighbor{
			Position: int(rowID - 1),
			Distance: float32(distance * distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	return results, nil
}

// Size is the number of loaded vectors.
func (s *Searcher) Size() int {
	return s.size
}

// Close releases the database.
func (s *Searcher) Close() error {
	return s.db.Close()
}

// serializeFloat32 converts a float32 slice to the little-endian BLOB format
// sqlite-vec expects.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

var _ index.Searcher = (*Searcher)(nil)
