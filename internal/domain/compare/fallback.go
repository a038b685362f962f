package compare

import (
	"fmt"

	"github.com/okian/tennis-compare/internal/domain/model"
	"github.com/okian/tennis-compare/internal/domain/rating"
)

// RatingStatus tags how a side's rating was obtained.
type RatingStatus int

const (
	// Unavailable means neither the requested slice nor the surface-only slice produced a rating.
	Unavailable RatingStatus = iota
	// Used means the requested slice produced the rating.
	Used
	// UsedWithRelaxedFilter means the rating came from the surface-only retry.
	UsedWithRelaxedFilter
)

func (s RatingStatus) String() string {
	switch s {
	case Used:
		return "used"
	case UsedWithRelaxedFilter:
		return "used_with_relaxed_filter"
	default:
		return "unavailable"
	}
}

type side struct {
	name        string
	year        int
	set         *model.MatchSet
	sparseNoted bool
}

// RatingOutcome is the tagged result of the two-stage rating lookup.
type RatingOutcome struct {
	Status RatingStatus
	Result rating.Result
}

// Available reports whether a rating was produced.
func (o RatingOutcome) Available() bool {
	return o.Status != Unavailable
}

func (o RatingOutcome) values() (*float64, *int) {
	if !o.Available() {
		return nil, nil
	}
	r, used := o.Result.Rating, o.Result.MatchesUsed
	return &r, &used
}

// sparse reports whether the first stage silently relaxed a sparse format filter.
func (o RatingOutcome) sparse() bool {
	return o.Status == Used && o.Result.FormatRelaxed
}

// notes derives the caveats for a side purely from the outcome.
func (o RatingOutcome) notes(s *side, surface string, bestOf int) []string {
	switch o.Status {
	case Used:
		if o.Result.FormatRelaxed {
			return []string{sparseNote(s, surface, bestOf, o.Result.FormatRows, o.Result.SliceRows)}
		}
		return nil
	case UsedWithRelaxedFilter:
		return []string{
			unavailableNote(s, surface, bestOf),
			fmt.Sprintf("Fallback: used %s (%d, %s) without best-of filter.", s.name, s.year, surface),
		}
	default:
		return []string{unavailableNote(s, surface, bestOf)}
	}
}

// rateWithFallback rates with the requested format, then retries surface-only.
func (c *Comparator) rateWithFallback(set *model.MatchSet, player, surface string, bestOf int) RatingOutcome {
	if res, ok := c.engine.Rate(set, player, surface, bestOf); ok {
		return RatingOutcome{Status: Used, Result: res}
	}
	if res, ok := c.engine.Rate(set, player, surface, 0); ok {
		return RatingOutcome{Status: UsedWithRelaxedFilter, Result: res}
	}
	return RatingOutcome{Status: Unavailable}
}

func unavailableNote(s *side, surface string, bestOf int) string {
	return fmt.Sprintf("Not enough slice data for %s (%d, %s, BO%d) - rating unavailable.", s.name, s.year, surface, bestOf)
}

func sparseNote(s *side, surface string, bestOf, formatRows, sliceRows int) string {
	return fmt.Sprintf("Sparse best-of data for %s (%d, %s): only %d BO%d matches on the surface, used all %d surface matches.",
		s.name, s.year, surface, formatRows, bestOf, sliceRows)
}
