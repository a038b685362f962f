package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

const defaultBusyTimeout = 5 * time.Second

// SQLiteStore is a Store backed by a single sqlite file.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
	now         func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies pending migrations.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)
	s.db = db

	if err := s.optimize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) optimize(ctx context.Context) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", fmt.Sprint(s.busyTimeout.Milliseconds())},
		{"temp_store", "MEMORY"},
	}
	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("set PRAGMA %s: %w", p.name, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) (FileMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, path, etag, last_modified, fetched_at FROM files WHERE key = ?`, key)
	meta, err := scanMeta(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FileMeta{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return meta, err
}

// Upsert implements Store. A zero FetchedAt is stamped with the current time.
func (s *SQLiteStore) Upsert(ctx context.Context, meta FileMeta) error {
	if strings.TrimSpace(meta.Key) == "" {
		return ErrInvalidKey
	}
	if meta.FetchedAt.IsZero() {
		meta.FetchedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (key, path, etag, last_modified, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			path = excluded.path,
			etag = excluded.etag,
			last_modified = excluded.last_modified,
			fetched_at = excluded.fetched_at`,
		meta.Key, meta.Path, meta.ETag, meta.LastModified, meta.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", meta.Key, err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]FileMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, path, etag, last_modified, fetched_at FROM files ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	out := make([]FileMeta, 0)
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeta(sc scanner) (FileMeta, error) {
	var (
		meta    FileMeta
		fetched string
	)
	if err := sc.Scan(&meta.Key, &meta.Path, &meta.ETag, &meta.LastModified, &fetched); err != nil {
		return FileMeta{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, fetched)
	if err != nil {
		return FileMeta{}, fmt.Errorf("parse fetched_at for %s: %w", meta.Key, err)
	}
	meta.FetchedAt = t
	return meta, nil
}
