// Package sqlite is a cache.Driver backed by a SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/policyqa/pkg/cache"
)

type Driver struct {
	db *sql.DB
}

// NewDriver opens dbPath, which can be a file path or ":memory:".
func NewDriver(dbPath string) (*Driver, error) {
	if dbPath == "" {
		return nil, errors.New("database path is required")
	}

	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS answer_cache (
			key TEXT PRIMARY KEY,
			answer TEXT NOT NULL,
			sources TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{db: db}, nil
}

func (d *Driver) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	var answer, sources string
	err := d.db.QueryRowContext(ctx,
		`SELECT answer, sources FROM answer_cache WHERE key = ?`, key,
	).Scan(&answer, &sources)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return cache.Entry{}, false, nil
	case err != nil:
		return cache.Entry{}, false, fmt.Errorf("reading cache entry: %w", err)
	}

	entry := cache.Entry{Answer: answer}
	if err := json.Unmarshal([]byte(sources), &entry.Sources); err != nil {
		return cache.Entry{}, false, fmt.Errorf("decoding cached sources: %w", err)
	}
	return entry, true, nil
}

func (d *Driver) Set(ctx context.Context, key string, entry cache.Entry) error {
	sources, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO answer_cache (key, answer, sources) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET answer = excluded.answer, sources = excluded.sources
	`, key, entry.Answer, string(sources))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func (d *Driver) Close() error {
	return d.db.Close()
}
