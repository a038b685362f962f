// Package repository persists metadata about cached dataset files.
package repository

import (
	"context"
	"time"
)

// FileMeta describes one cached download. ETag and LastModified are the
// validators the server returned, empty when it sent none.
type FileMeta struct {
	Key          string
	Path         string
	ETag         string
	LastModified string
	FetchedAt    time.Time
}

// Store provides read/write access to cache metadata.
type Store interface {
	// Get returns the metadata for key or ErrNotFound.
	Get(ctx context.Context, key string) (FileMeta, error)
	// Upsert inserts or replaces the metadata for meta.Key.
	Upsert(ctx context.Context, meta FileMeta) error
	// List returns every entry ordered by key.
	List(ctx context.Context) ([]FileMeta, error)
	Close() error
}
