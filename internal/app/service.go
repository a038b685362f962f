// Package service wires data loading and the comparison engine together and
// implements the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/tennis-compare/internal/adapters/dataset"
	"github.com/okian/tennis-compare/internal/adapters/download"
	"github.com/okian/tennis-compare/internal/adapters/repository"
	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/internal/domain/model"
	"github.com/okian/tennis-compare/internal/domain/rating"
	"github.com/okian/tennis-compare/internal/domain/resolve"
	"github.com/okian/tennis-compare/internal/domain/season"
	"github.com/okian/tennis-compare/internal/domain/types"
	"github.com/okian/tennis-compare/pkg/logger"
	"github.com/okian/tennis-compare/pkg/metrics"
)

const maxSuggestions = 50

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// RosterProvider supplies the list of known player names.
type RosterProvider interface {
	Players(ctx context.Context) ([]string, error)
}

// MatchProvider supplies one season of matches.
type MatchProvider interface {
	Matches(ctx context.Context, year int) (*model.MatchSet, error)
}

// Service implements the comparison use cases.
type Service struct {
	mu sync.RWMutex

	// Core components
	roster     RosterProvider
	matches    MatchProvider
	store      repository.Store
	comparator *compare.Comparator

	// Configuration
	cacheDir         string
	baseURL          string
	playersFile      string
	matchesPattern   string
	httpTimeout      time.Duration
	minYear          int
	maxYear          int
	resolverLimit    int
	resolverMinScore int
	minFormatRows    int
	thresholds       compare.Thresholds

	// State
	started     bool
	startedAt   time.Time
	comparisons atomic.Int64
	failures    atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheDir:         ".tennis-compare",
		baseURL:          "https://raw.githubusercontent.com/JeffSackmann/tennis_atp/master",
		playersFile:      "atp_players.csv",
		matchesPattern:   "atp_matches_%d.csv",
		httpTimeout:      30 * time.Second,
		minYear:          1968,
		maxYear:          2030,
		resolverLimit:    5,
		resolverMinScore: 80,
		minFormatRows:    50,
		thresholds:       compare.DefaultThresholds(),
		logger:           logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components. Providers that were not
// injected are backed by the on-disk download cache.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.comparator = compare.New(
		compare.WithResolver(resolve.New(
			resolve.WithLimit(s.resolverLimit),
			resolve.WithMinScore(s.resolverMinScore),
		)),
		compare.WithEngine(rating.NewEngine(rating.WithMinFormatRows(s.minFormatRows))),
		compare.WithAggregator(season.NewAggregator(season.WithMinFormatRows(s.minFormatRows))),
		compare.WithThresholds(s.thresholds),
	)

	if s.roster == nil || s.matches == nil {
		store, err := repository.NewSQLiteStore(ctx, filepath.Join(s.cacheDir, "cache.sqlite3"))
		if err != nil {
			return fmt.Errorf("open download cache: %w", err)
		}
		s.store = store
		fetcher := download.NewFetcher(store, filepath.Join(s.cacheDir, "data"),
			download.WithTimeout(s.httpTimeout),
			download.WithLogger(s.logger.Named("download")),
		)
		src := dataset.NewSource(fetcher,
			dataset.WithBaseURL(s.baseURL),
			dataset.WithPlayersFile(s.playersFile),
			dataset.WithMatchesPattern(s.matchesPattern),
			dataset.WithLogger(s.logger.Named("dataset")),
		)
		if s.roster == nil {
			s.roster = src
		}
		if s.matches == nil {
			s.matches = src
		}
		s.logger.Info(ctx, "using download cache", logger.String("dir", s.cacheDir))
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "comparison service started",
		logger.Int("minYear", s.minYear),
		logger.Int("maxYear", s.maxYear),
		logger.Int("minFormatRows", s.minFormatRows),
	)
	return nil
}

// Stop releases the download cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing cache store", logger.Error(err))
		}
		s.store = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "comparison service stopped")
}

// YearRange returns the accepted seasons.
func (s *Service) YearRange() (int, int) {
	return s.minYear, s.maxYear
}

func (s *Service) components() (*compare.Comparator, RosterProvider, MatchProvider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.comparator, s.roster, s.matches, nil
}

// Compare runs one comparison. Resolution failures return a
// *compare.ResolutionError; missing data only adds notes to the result.
func (s *Service) Compare(ctx context.Context, req compare.Request) (types.Comparison, error) {
	start := time.Now()
	id := uuid.NewString()

	res, err := s.compare(ctx, req)
	if err != nil {
		s.failures.Add(1)
		kind := errorKind(err)
		metrics.RecordComparisonError(kind)
		s.logWarnOrError(ctx, kind, "comparison failed",
			logger.String("id", id),
			logger.String("kind", kind),
			logger.String("player_a", req.PlayerA),
			logger.String("player_b", req.PlayerB),
			logger.Error(err),
		)
		return types.Comparison{}, err
	}

	took := time.Since(start)
	s.comparisons.Add(1)
	metrics.RecordComparison(res.Verdict.String(), len(res.Notes), float64(took.Milliseconds()))
	metrics.RecordRatingOutcome(res.StatusA.String())
	metrics.RecordRatingOutcome(res.StatusB.String())
	s.logger.Info(ctx, "comparison finished",
		logger.String("id", id),
		logger.String("player_a", res.PlayerA),
		logger.Int("year_a", res.YearA),
		logger.String("player_b", res.PlayerB),
		logger.Int("year_b", res.YearB),
		logger.String("surface", res.Surface),
		logger.Int("best_of", res.BestOf),
		logger.Float64("p_a_wins", res.PAWins),
		logger.String("verdict", res.Verdict.String()),
		logger.Int("notes", len(res.Notes)),
		logger.Duration("took", took),
	)

	out := ToComparison(res)
	out.ID = id
	return out, nil
}

func (s *Service) compare(ctx context.Context, req compare.Request) (*compare.Result, error) {
	comparator, roster, matches, err := s.components()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Surface) == "" {
		req.Surface = "Hard"
	}
	if err := req.Validate(s.minYear, s.maxYear); err != nil {
		return nil, err
	}

	names, err := roster.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: roster: %w", compare.ErrDataUnavailable, err)
	}
	players, err := comparator.Resolve(names, req)
	if err != nil {
		metrics.RecordResolution("unresolved")
		return nil, err
	}
	metrics.RecordResolution(resolutionOutcome(req.PlayerA, players.A))
	metrics.RecordResolution(resolutionOutcome(req.PlayerB, players.B))

	setA, setB, err := loadSeasons(ctx, matches, req.YearA, req.YearB)
	if err != nil {
		return nil, err
	}
	return comparator.Evaluate(players, req, setA, setB), nil
}

// loadSeasons fetches both seasons concurrently, once when the years match.
func loadSeasons(ctx context.Context, p MatchProvider, yearA, yearB int) (*model.MatchSet, *model.MatchSet, error) {
	var setA, setB *model.MatchSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		setA, err = p.Matches(gctx, yearA)
		if err != nil {
			return fmt.Errorf("%w: season %d: %w", compare.ErrDataUnavailable, yearA, err)
		}
		return nil
	})
	if yearB != yearA {
		g.Go(func() error {
			var err error
			setB, err = p.Matches(gctx, yearB)
			if err != nil {
				return fmt.Errorf("%w: season %d: %w", compare.ErrDataUnavailable, yearB, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if yearB == yearA {
		setB = setA
	}
	return setA, setB, nil
}

// Suggest ranks roster names against query.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	comparator, roster, _, err := s.components()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.resolverLimit
	}
	limit = min(limit, maxSuggestions)
	names, err := roster.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: roster: %w", compare.ErrDataUnavailable, err)
	}
	ranked := comparator.Resolver().Rank(names, query, limit)
	out := make([]types.Candidate, len(ranked))
	for i, c := range ranked {
		out[i] = types.Candidate{Name: c.Name, Score: c.Score}
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"comparisons": s.comparisons.Load(),
		"failures":    s.failures.Load(),
		"minYear":     s.minYear,
		"maxYear":     s.maxYear,
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	if s.store != nil {
		if entries, err := s.store.List(ctx); err == nil {
			files := make([]map[string]any, len(entries))
			for i, e := range entries {
				files[i] = map[string]any{
					"key":       e.Key,
					"fetchedAt": e.FetchedAt.UTC().Format(time.RFC3339),
					"etag":      e.ETag,
				}
			}
			stats["cachedFiles"] = files
		}
	}
	return stats
}

// ToComparison converts a domain result to its public form.
func ToComparison(r *compare.Result) types.Comparison {
	notes := r.Notes
	if notes == nil {
		notes = []string{}
	}
	return types.Comparison{
		PlayerA:        r.PlayerA,
		YearA:          r.YearA,
		PlayerB:        r.PlayerB,
		YearB:          r.YearB,
		Surface:        r.Surface,
		BestOf:         r.BestOf,
		PAWins:         r.PAWins,
		RatingA:        r.RatingA,
		RatingB:        r.RatingB,
		RatingMatchesA: r.RatingMatchesA,
		RatingMatchesB: r.RatingMatchesB,
		StatsA:         toSeasonStats(r.StatsA),
		StatsB:         toSeasonStats(r.StatsB),
		Notes:          notes,
		Winner:         r.Winner,
	}
}

func toSeasonStats(st *season.Stats) *types.SeasonStats {
	if st == nil {
		return nil
	}
	out := &types.SeasonStats{
		Matches: st.Matches,
		Wins:    st.Wins,
		Losses:  st.Losses,
		WinPct:  st.WinPct,
	}
	if st.TitlesAvailable() {
		titles, finals := *st.Titles, *st.Finals
		out.Titles, out.Finals = &titles, &finals
	}
	return out
}

func resolutionOutcome(query, resolved string) string {
	if strings.EqualFold(strings.TrimSpace(query), resolved) {
		return "exact"
	}
	return "fuzzy"
}

// errorKind classifies err for metrics and HTTP status mapping.
func errorKind(err error) string {
	switch {
	case errors.Is(err, compare.ErrUnresolved):
		return "unresolved"
	case errors.Is(err, compare.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, compare.ErrDataUnavailable):
		return "data"
	default:
		return "internal"
	}
}

func (s *Service) logWarnOrError(ctx context.Context, kind, msg string, fields ...logger.Field) {
	if kind == "unresolved" || kind == "invalid" {
		s.logger.Warn(ctx, msg, fields...)
		return
	}
	s.logger.Error(ctx, msg, fields...)
}
