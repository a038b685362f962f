// Package rating replays a season slice to estimate one player's strength.
package rating

import (
	"sort"
	"strings"

	"github.com/okian/tennis-compare/internal/domain/filter"
	"github.com/okian/tennis-compare/internal/domain/model"
	"github.com/okian/tennis-compare/internal/domain/probability"
)

// BaselineRating is assigned to any competitor the first time they appear in a slice.
const BaselineRating = 1500.0

// Per-match update weights by round.
const (
	kFinal        = 40.0
	kSemifinal    = 36.0
	kQuarterfinal = 34.0
	kBase         = 32.0
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinFormatRows sets how many best-of rows a slice needs before the
// format filter is honoured.
func WithMinFormatRows(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minFormatRows = n
		}
	}
}

// Result is the end-of-slice rating of one player.
type Result struct {
	Rating float64
	// MatchesUsed counts replayed rows; rows with a missing name are skipped.
	MatchesUsed int
	// FormatRelaxed is true when a sparse best-of filter was dropped.
	FormatRelaxed bool
	// FormatRows and SliceRows describe the slice the rating came from.
	FormatRows int
	SliceRows  int
}

// Engine computes within-slice ratings. It holds no per-query state.
type Engine struct {
	minFormatRows int
}

// NewEngine creates a rating engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{minFormatRows: filter.DefaultMinFormatRows}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rate returns player's rating after replaying the surface (and format)
// slice of set in chronological order. bestOf <= 0 means no format filter.
// ok is false when the dataset has no surface column, the slice is empty or
// the player never appears in it.
func (e *Engine) Rate(set *model.MatchSet, player, surface string, bestOf int) (Result, bool) {
	slice, ok := filter.Select(set, surface, bestOf, e.minFormatRows)
	if !ok || len(slice.Matches) == 0 {
		return Result{}, false
	}

	played := filter.ForPlayer(slice.Matches, player)
	if len(played) == 0 {
		return Result{}, false
	}

	SortChronologically(played, set.Columns)
	res := Replay(played, player)
	res.FormatRelaxed = slice.Relaxed()
	res.FormatRows = slice.FormatRows
	res.SliceRows = len(slice.Matches)
	return res, true
}

// Replay applies the pairwise update for every match in order and returns
// player's final rating. Order matters; callers sort first.
func Replay(matches []model.Match, player string) Result {
	ratings := NewRatings()
	used := 0
	for _, m := range matches {
		if m.WinnerName == "" || m.LoserName == "" {
			continue
		}
		rw, rl := ratings.Get(m.WinnerName), ratings.Get(m.LoserName)
		delta := KFactor(m.Round) * (1 - probability.Expected(rw, rl))
		ratings.Set(m.WinnerName, rw+delta)
		ratings.Set(m.LoserName, rl-delta)
		used++
	}
	return Result{Rating: ratings.Get(player), MatchesUsed: used}
}

// KFactor weights later rounds more heavily.
func KFactor(round string) float64 {
	switch strings.ToUpper(round) {
	case "F":
		return kFinal
	case "SF":
		return kSemifinal
	case "QF":
		return kQuarterfinal
	default:
		return kBase
	}
}

// SortChronologically orders matches by tourney date then match number, for
// whichever of those columns the dataset has. Missing values sort last and
// ties keep arrival order.
func SortChronologically(matches []model.Match, cols model.Columns) {
	if !cols.TourneyDate && !cols.MatchNum {
		return
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if cols.TourneyDate {
			if c := compareOptional(matches[i].TourneyDate, matches[j].TourneyDate); c != 0 {
				return c < 0
			}
		}
		if cols.MatchNum {
			if c := compareOptional(matches[i].MatchNum, matches[j].MatchNum); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func compareOptional(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
