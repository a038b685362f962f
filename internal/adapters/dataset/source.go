// Package dataset turns the cached CSV files into rosters and match seasons.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/okian/tennis-compare/internal/domain/model"
	"github.com/okian/tennis-compare/pkg/logger"
	"github.com/okian/tennis-compare/pkg/metrics"
)

// Fetcher resolves a remote file to a local path.
type Fetcher interface {
	FetchToCache(ctx context.Context, key, url, filename string) (string, error)
}

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithBaseURL sets the URL the file names are resolved against.
func WithBaseURL(u string) Option {
	return func(s *Source) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithPlayersFile sets the players file name.
func WithPlayersFile(name string) Option {
	return func(s *Source) {
		if name != "" {
			s.playersFile = name
		}
	}
}

// WithMatchesPattern sets the per-year matches file name; %d is the year.
func WithMatchesPattern(pattern string) Option {
	return func(s *Source) {
		if pattern != "" {
			s.matchesPattern = pattern
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// stamp identifies one version of a file on disk.
type stamp struct {
	path    string
	modTime time.Time
	size    int64
}

func (s stamp) same(o stamp) bool {
	return s.path == o.path && s.size == o.size && s.modTime.Equal(o.modTime)
}

type rosterEntry struct {
	stamp stamp
	names []string
}

type seasonEntry struct {
	stamp stamp
	set   *model.MatchSet
}

// Source loads rosters and seasons through a Fetcher and memoises the
// parsed result until the file on disk changes.
type Source struct {
	fetcher        Fetcher
	baseURL        string
	playersFile    string
	matchesPattern string
	log            logger.Logger

	mu      sync.Mutex
	roster  *rosterEntry
	seasons map[int]*seasonEntry
}

// NewSource creates a source with configuration options.
func NewSource(f Fetcher, opts ...Option) *Source {
	s := &Source{
		fetcher:        f,
		baseURL:        "https://raw.githubusercontent.com/JeffSackmann/tennis_atp/master",
		playersFile:    "atp_players.csv",
		matchesPattern: "atp_matches_%d.csv",
		log:            logger.New(io.Discard),
		seasons:        make(map[int]*seasonEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Players returns the roster of distinct player names.
func (s *Source) Players(ctx context.Context) ([]string, error) {
	path, err := s.fetcher.FetchToCache(ctx, "players", s.baseURL+"/"+s.playersFile, s.playersFile)
	if err != nil {
		return nil, err
	}
	st, err := statFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.roster != nil && s.roster.stamp.same(st) {
		names := s.roster.names
		s.mu.Unlock()
		return names, nil
	}
	s.mu.Unlock()

	names, err := parseFile(path, ParsePlayers)
	if err != nil {
		return nil, err
	}
	metrics.RecordRowsParsed("players", len(names))
	metrics.UpdateRosterSize(len(names))
	s.log.Debug(ctx, "roster parsed", logger.String("path", path), logger.Int("players", len(names)))

	s.mu.Lock()
	s.roster = &rosterEntry{stamp: st, names: names}
	s.mu.Unlock()
	return names, nil
}

// Matches returns every match of year. The returned set is shared; callers
// must not modify it.
func (s *Source) Matches(ctx context.Context, year int) (*model.MatchSet, error) {
	file := fmt.Sprintf(s.matchesPattern, year)
	path, err := s.fetcher.FetchToCache(ctx, fmt.Sprintf("matches_%d", year), s.baseURL+"/"+file, file)
	if err != nil {
		return nil, err
	}
	st, err := statFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if e, ok := s.seasons[year]; ok && e.stamp.same(st) {
		s.mu.Unlock()
		return e.set, nil
	}
	s.mu.Unlock()

	set, err := parseFile(path, func(r io.Reader) (*model.MatchSet, error) { return ParseMatches(r, year) })
	if err != nil {
		return nil, err
	}
	metrics.RecordRowsParsed("matches", len(set.Matches))
	s.log.Debug(ctx, "season parsed",
		logger.Int("year", year),
		logger.Int("matches", len(set.Matches)),
		logger.Bool("has_surface", set.Columns.Surface),
	)

	s.mu.Lock()
	s.seasons[year] = &seasonEntry{stamp: st, set: set}
	s.mu.Unlock()
	return set, nil
}

func statFile(path string) (stamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return stamp{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return stamp{path: path, modTime: fi.ModTime(), size: fi.Size()}, nil
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
