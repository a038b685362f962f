// Package compare estimates a hypothetical match between two players, each
// taken at a given season.
package compare

import (
	"fmt"
	"strings"

	"github.com/okian/tennis-compare/internal/domain/model"
	"github.com/okian/tennis-compare/internal/domain/probability"
	"github.com/okian/tennis-compare/internal/domain/rating"
	"github.com/okian/tennis-compare/internal/domain/resolve"
	"github.com/okian/tennis-compare/internal/domain/season"
)

// neutralProbability is used when either rating is missing.
const neutralProbability = 0.5

var surfaces = map[string]string{
	"hard":   "Hard",
	"clay":   "Clay",
	"grass":  "Grass",
	"indoor": "Indoor",
	"carpet": "Carpet",
}

// NormalizeSurface maps a surface to the dataset's casing. Unknown values pass through.
func NormalizeSurface(surface string) string {
	if s, ok := surfaces[strings.ToLower(surface)]; ok {
		return s
	}
	return surface
}

// Side identifies one of the two compared players.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Request is one comparison: two (player, season) pairs on a shared surface and format.
type Request struct {
	PlayerA string
	YearA   int
	PlayerB string
	YearB   int
	Surface string
	BestOf  int
}

// Validate checks the request against the supported season range.
func (r Request) Validate(minYear, maxYear int) error {
	switch {
	case strings.TrimSpace(r.PlayerA) == "":
		return fmt.Errorf("%w: missing player A", ErrInvalidRequest)
	case strings.TrimSpace(r.PlayerB) == "":
		return fmt.Errorf("%w: missing player B", ErrInvalidRequest)
	case r.YearA < minYear || r.YearA > maxYear:
		return fmt.Errorf("%w: year A %d outside %d-%d", ErrInvalidRequest, r.YearA, minYear, maxYear)
	case r.YearB < minYear || r.YearB > maxYear:
		return fmt.Errorf("%w: year B %d outside %d-%d", ErrInvalidRequest, r.YearB, minYear, maxYear)
	case r.BestOf != 3 && r.BestOf != 5:
		return fmt.Errorf("%w: best of must be 3 or 5, got %d", ErrInvalidRequest, r.BestOf)
	case strings.TrimSpace(r.Surface) == "":
		return fmt.Errorf("%w: missing surface", ErrInvalidRequest)
	}
	return nil
}

// Players holds the resolved roster names for both sides.
type Players struct {
	A string
	B string
}

// Result is the outcome of one comparison.
type Result struct {
	PlayerA string
	PlayerB string
	YearA   int
	YearB   int
	Surface string
	BestOf  int

	// PAWins is player A's match win probability, always within [0, 1].
	PAWins float64

	RatingA        *float64
	RatingB        *float64
	RatingMatchesA *int
	RatingMatchesB *int

	// StatusA and StatusB record how each rating was obtained.
	StatusA RatingStatus
	StatusB RatingStatus

	StatsA *season.Stats
	StatsB *season.Stats

	Notes   []string
	Verdict Verdict
	Winner  string
}

// Option applies a configuration option to the Comparator.
type Option func(*Comparator)

// WithResolver sets the entity resolver.
func WithResolver(r *resolve.Resolver) Option {
	return func(c *Comparator) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithEngine sets the rating engine.
func WithEngine(e *rating.Engine) Option {
	return func(c *Comparator) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithAggregator sets the season aggregator.
func WithAggregator(a *season.Aggregator) Option {
	return func(c *Comparator) {
		if a != nil {
			c.aggregator = a
		}
	}
}

// WithThresholds sets the verdict band. Malformed bands are ignored.
func WithThresholds(t Thresholds) Option {
	return func(c *Comparator) {
		if t.Valid() {
			c.thresholds = t
		}
	}
}

// Comparator composes resolution, rating, probability and season stats.
// It keeps no state between calls.
type Comparator struct {
	resolver   *resolve.Resolver
	engine     *rating.Engine
	aggregator *season.Aggregator
	thresholds Thresholds
}

// New creates a comparator with configuration options.
func New(opts ...Option) *Comparator {
	c := &Comparator{
		resolver:   resolve.New(),
		engine:     rating.NewEngine(),
		aggregator: season.NewAggregator(),
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolver exposes the resolver for suggestion lookups.
func (c *Comparator) Resolver() *resolve.Resolver {
	return c.resolver
}

// Resolve resolves both players against roster. The first unresolved side
// yields a *ResolutionError.
func (c *Comparator) Resolve(roster []string, req Request) (Players, error) {
	a, altsA := c.resolver.Resolve(roster, req.PlayerA)
	if a == "" {
		return Players{}, &ResolutionError{Side: SideA, Query: req.PlayerA, Suggestions: altsA}
	}
	b, altsB := c.resolver.Resolve(roster, req.PlayerB)
	if b == "" {
		return Players{}, &ResolutionError{Side: SideB, Query: req.PlayerB, Suggestions: altsB}
	}
	return Players{A: a, B: b}, nil
}

// Compare resolves both players and evaluates them on their seasons.
func (c *Comparator) Compare(roster []string, req Request, setA, setB *model.MatchSet) (*Result, error) {
	players, err := c.Resolve(roster, req)
	if err != nil {
		return nil, err
	}
	return c.Evaluate(players, req, setA, setB), nil
}

// Evaluate runs the rating, probability and season steps for already
// resolved players. Missing data degrades the result and adds notes; it
// never fails.
func (c *Comparator) Evaluate(players Players, req Request, setA, setB *model.MatchSet) *Result {
	surface := NormalizeSurface(req.Surface)
	res := &Result{
		PlayerA: players.A,
		PlayerB: players.B,
		YearA:   req.YearA,
		YearB:   req.YearB,
		Surface: surface,
		BestOf:  req.BestOf,
		Notes:   []string{},
	}

	a := &side{name: players.A, year: req.YearA, set: setA}
	b := &side{name: players.B, year: req.YearB, set: setB}

	outA := c.rateWithFallback(a.set, a.name, surface, req.BestOf)
	res.Notes = append(res.Notes, outA.notes(a, surface, req.BestOf)...)
	a.sparseNoted = outA.sparse()
	outB := c.rateWithFallback(b.set, b.name, surface, req.BestOf)
	res.Notes = append(res.Notes, outB.notes(b, surface, req.BestOf)...)
	b.sparseNoted = outB.sparse()

	res.StatusA, res.StatusB = outA.Status, outB.Status
	res.RatingA, res.RatingMatchesA = outA.values()
	res.RatingB, res.RatingMatchesB = outB.values()

	if res.RatingA != nil && res.RatingB != nil {
		p := probability.MatchProbability(*res.RatingA, *res.RatingB)
		res.PAWins = probability.AdjustForFormat(p, req.BestOf)
	} else {
		res.PAWins = neutralProbability
		res.Notes = append(res.Notes, "Probability fallback: missing rating for one or both players, returning 0.50.")
	}

	res.Verdict = Classify(res.PAWins, c.thresholds)
	res.Winner = winnerLabel(res.Verdict, players.A, players.B)

	res.StatsA = c.stats(&res.Notes, a, surface, req.BestOf)
	res.StatsB = c.stats(&res.Notes, b, surface, req.BestOf)
	return res
}

func (c *Comparator) stats(out *[]string, s *side, surface string, bestOf int) *season.Stats {
	st, ok := c.aggregator.Aggregate(s.set, s.name, surface, bestOf)
	if !ok {
		*out = append(*out, fmt.Sprintf("Season stats unavailable for %s in %d on %s (BO filter may be too strict).", s.name, s.year, surface))
		return nil
	}
	if st.FormatRelaxed && !s.sparseNoted {
		*out = append(*out, sparseNote(s, surface, bestOf, st.FormatRows, st.SliceRows))
		s.sparseNoted = true
	}
	return &st
}
