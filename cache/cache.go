// Package cache stores downloaded structure files in a local SQLite database,
// so repeated queries on the same PDB entry do not hit the network.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a URL has no cached body.
var ErrNotFound = errors.New("cache: not found")

const schema = `
CREATE TABLE IF NOT EXISTS files (
	url        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
)`

// Getter downloads the contents of a URL.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Cache is a SQLite backed store of downloaded files keyed by URL.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path. Use ":memory:" for a throwaway cache.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Load returns the cached body for url, or ErrNotFound.
func (c *Cache) Load(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := c.db.QueryRowContext(ctx, "SELECT body FROM files WHERE url = ?", url).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	return body, nil
}

// Store saves body for url, replacing any previous entry.
func (c *Cache) Store(ctx context.Context, url string, body []byte) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO files (url, body, fetched_at) VALUES (?, ?, ?)",
		url, body, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store %s: %w", url, err)
	}
	return nil
}

// Getter returns a Getter answering from the cache first, and storing what g downloads.
func (c *Cache) Getter(g Getter) Getter {
	return &cachedGetter{cache: c, next: g}
}

type cachedGetter struct {
	cache *Cache
	next  Getter
}

func (cg *cachedGetter) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := cg.cache.Load(ctx, url)
	if err == nil {
		return body, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	body, err = cg.next.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := cg.cache.Store(ctx, url, body); err != nil {
		return nil, err
	}
	return body, nil
}
