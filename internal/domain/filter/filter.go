// Package filter derives the match slice a rating or season computation runs on.
package filter

import (
	"strings"

	"github.com/okian/tennis-compare/internal/domain/model"
)

// DefaultMinFormatRows is the smallest best-of subset kept before the
// format filter is dropped in favour of the surface-only slice.
const DefaultMinFormatRows = 50

// Slice is the outcome of filtering one season by surface and format.
type Slice struct {
	Matches []model.Match

	// FormatRequested is true when a best-of filter was asked for and the
	// dataset has a best_of column to apply it to.
	FormatRequested bool
	// FormatApplied is false when the best-of subset was too sparse and the
	// surface-only slice was used instead.
	FormatApplied bool
	// FormatRows is the size of the best-of subset, applied or not.
	FormatRows int
	// SurfaceRows is the size of the surface-only slice.
	SurfaceRows int
}

// Relaxed reports whether a requested best-of filter was silently discarded.
func (s Slice) Relaxed() bool {
	return s.FormatRequested && !s.FormatApplied
}

// Select filters set to surface (case-insensitive) and, when bestOf > 0, to
// that format. The format subset is kept only when it has at least
// minFormatRows rows. ok is false when the dataset has no surface column.
// The returned slice never aliases set.Matches.
func Select(set *model.MatchSet, surface string, bestOf, minFormatRows int) (Slice, bool) {
	if set == nil || !set.Columns.Surface {
		return Slice{}, false
	}

	target := strings.ToLower(surface)
	bySurface := make([]model.Match, 0, len(set.Matches))
	for _, m := range set.Matches {
		if strings.ToLower(m.Surface) == target {
			bySurface = append(bySurface, m)
		}
	}

	out := Slice{Matches: bySurface, SurfaceRows: len(bySurface)}
	if bestOf <= 0 || !set.Columns.BestOf {
		return out, true
	}

	out.FormatRequested = true
	byFormat := make([]model.Match, 0, len(bySurface))
	for _, m := range bySurface {
		if m.BestOf == bestOf {
			byFormat = append(byFormat, m)
		}
	}
	out.FormatRows = len(byFormat)
	if len(byFormat) >= minFormatRows {
		out.Matches = byFormat
		out.FormatApplied = true
	}
	return out, true
}

// ForPlayer keeps the rows where name is the winner or the loser, preserving order.
func ForPlayer(matches []model.Match, name string) []model.Match {
	out := make([]model.Match, 0)
	for _, m := range matches {
		if m.Involves(name) {
			out = append(out, m)
		}
	}
	return out
}
