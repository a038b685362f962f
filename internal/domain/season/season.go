// Package season aggregates descriptive win/loss and finals counts.
package season

import (
	"strings"

	"github.com/okian/tennis-compare/internal/domain/filter"
	"github.com/okian/tennis-compare/internal/domain/model"
)

const finalRound = "F"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithMinFormatRows sets the sparse best-of threshold, see filter.Select.
func WithMinFormatRows(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.minFormatRows = n
		}
	}
}

// Stats summarises one player's season slice.
type Stats struct {
	Matches int
	Wins    int
	Losses  int
	WinPct  float64
	// Titles and Finals are nil when the dataset lacks round or tourney_id
	// columns; zero would wrongly claim no finals were reached.
	Titles *int
	Finals *int

	FormatRelaxed bool
	FormatRows    int
	SliceRows     int
}

// TitlesAvailable reports whether titles/finals could be computed.
func (s Stats) TitlesAvailable() bool {
	return s.Titles != nil && s.Finals != nil
}

// Aggregator computes season statistics. Every call derives its own slice.
type Aggregator struct {
	minFormatRows int
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{minFormatRows: filter.DefaultMinFormatRows}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns player's stats on surface (and bestOf when > 0).
// ok is false when there is no surface column or the player has no rows.
func (a *Aggregator) Aggregate(set *model.MatchSet, player, surface string, bestOf int) (Stats, bool) {
	slice, ok := filter.Select(set, surface, bestOf, a.minFormatRows)
	if !ok || len(slice.Matches) == 0 {
		return Stats{}, false
	}
	played := filter.ForPlayer(slice.Matches, player)
	if len(played) == 0 {
		return Stats{}, false
	}

	var st Stats
	for _, m := range played {
		if m.WinnerName == player {
			st.Wins++
		}
		if m.LoserName == player {
			st.Losses++
		}
	}
	st.Matches = st.Wins + st.Losses
	if st.Matches > 0 {
		st.WinPct = float64(st.Wins) / float64(st.Matches)
	}
	st.FormatRelaxed = slice.Relaxed()
	st.FormatRows = slice.FormatRows
	st.SliceRows = len(slice.Matches)

	if set.Columns.Round && set.Columns.TourneyID {
		titles, finals := countFinals(played, player)
		st.Titles = &titles
		st.Finals = &finals
	}
	return st, true
}

// countFinals counts distinct tournaments where player reached, and won, the final.
func countFinals(played []model.Match, player string) (titles, finals int) {
	reached := make(map[string]struct{})
	won := make(map[string]struct{})
	for _, m := range played {
		if !strings.EqualFold(m.Round, finalRound) || m.TourneyID == "" {
			continue
		}
		reached[m.TourneyID] = struct{}{}
		if m.WinnerName == player {
			won[m.TourneyID] = struct{}{}
		}
	}
	return len(won), len(reached)
}
