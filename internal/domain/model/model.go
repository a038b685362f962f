// Package model contains domain models passed between layers.
package model

// Player is one roster entry. Identity is the full display name.
type Player struct {
	Name string
}

// Match is one historical result as consumed by the comparison engine.
// Empty strings mean the value was missing in the source row.
type Match struct {
	WinnerName  string
	LoserName   string
	Surface     string
	BestOf      int  // 0 when absent
	Round       string
	TourneyDate *int // YYYYMMDD, ordering only
	MatchNum    *int // secondary ordering key
	TourneyID   string
}

// Columns records which optional columns the source dataset carried.
// A missing column is different from a missing value: without a surface
// column nothing can be rated at all.
type Columns struct {
	Surface     bool
	BestOf      bool
	Round       bool
	TourneyID   bool
	TourneyDate bool
	MatchNum    bool
}

// AllColumns reports a dataset with every optional column present.
func AllColumns() Columns {
	return Columns{
		Surface:     true,
		BestOf:      true,
		Round:       true,
		TourneyID:   true,
		TourneyDate: true,
		MatchNum:    true,
	}
}

// MatchSet is every match of one season in arrival order.
type MatchSet struct {
	Year    int
	Columns Columns
	Matches []Match
}

// Involves reports whether name played in m.
func (m Match) Involves(name string) bool {
	return m.WinnerName == name || m.LoserName == name
}
