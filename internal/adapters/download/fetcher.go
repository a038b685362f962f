// Package download keeps local copies of remote dataset files fresh using
// conditional HTTP requests.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/tennis-compare/internal/adapters/repository"
	"github.com/okian/tennis-compare/pkg/logger"
	"github.com/okian/tennis-compare/pkg/metrics"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "tennis-compare/1.0"
)

// Fetch results, also used as metric labels.
const (
	ResultDownloaded  = "downloaded"
	ResultNotModified = "not_modified"
	ResultStale       = "stale"
	ResultFailed      = "failed"
)

// Fetcher downloads files into dataDir and records their validators in store.
type Fetcher struct {
	client  *fasthttp.Client
	store   repository.Store
	dataDir string
	timeout time.Duration
	log     logger.Logger
}

// NewFetcher creates a fetcher with configuration options.
func NewFetcher(store repository.Store, dataDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &fasthttp.Client{
			Name:                userAgent,
			MaxConnsPerHost:     16,
			ReadTimeout:         defaultTimeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
			MaxResponseBodySize: 256 << 20,
		},
		store:   store,
		dataDir: dataDir,
		timeout: defaultTimeout,
		log:     logger.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchToCache returns the local path of url's content, stored as filename.
// A cached copy is revalidated with If-None-Match / If-Modified-Since; a 304
// keeps it. When the server cannot be reached the cached copy is served stale.
func (f *Fetcher) FetchToCache(ctx context.Context, key, url, filename string) (string, error) {
	start := time.Now()
	path, result, err := f.fetch(ctx, key, url, filename)
	metrics.RecordDatasetFetch(result, float64(time.Since(start).Milliseconds()))
	return path, err
}

func (f *Fetcher) fetch(ctx context.Context, key, url, filename string) (string, string, error) {
	meta, err := f.store.Get(ctx, key)
	hasMeta := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", ResultFailed, fmt.Errorf("%w: read cache metadata for %s: %w", ErrDownload, key, err)
	}
	cached := ""
	if hasMeta && fileExists(meta.Path) {
		cached = meta.Path
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if cached != "" {
		if meta.ETag != "" {
			req.Header.Set(fasthttp.HeaderIfNoneMatch, meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set(fasthttp.HeaderIfModifiedSince, meta.LastModified)
		}
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(f.timeout)
	}
	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		if cached != "" {
			f.log.Warn(ctx, "serving stale cached copy",
				logger.String("key", key),
				logger.String("url", url),
				logger.Error(err),
			)
			return cached, ResultStale, nil
		}
		return "", ResultFailed, fmt.Errorf("%w: network error downloading %s: %w", ErrDownload, url, err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotModified && cached != "":
		return cached, ResultNotModified, nil
	case status != fasthttp.StatusOK:
		return "", ResultFailed, fmt.Errorf("%w: %s returned status %d", ErrDownload, url, status)
	}

	out := filepath.Join(f.dataDir, filename)
	if err := writeAtomic(out, resp.Body()); err != nil {
		return "", ResultFailed, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if err := f.store.Upsert(ctx, repository.FileMeta{
		Key:          key,
		Path:         out,
		ETag:         string(resp.Header.Peek(fasthttp.HeaderETag)),
		LastModified: string(resp.Header.Peek(fasthttp.HeaderLastModified)),
		FetchedAt:    time.Now().UTC(),
	}); err != nil {
		// The file itself is good; the next request simply won't be conditional.
		f.log.Warn(ctx, "cache metadata not saved", logger.String("key", key), logger.Error(err))
	}
	return out, ResultDownloaded, nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// writeAtomic writes body next to path and renames it into place.
func writeAtomic(path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
