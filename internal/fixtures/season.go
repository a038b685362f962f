// Package fixtures builds synthetic seasons for tests.
package fixtures

import (
	"fmt"

	"github.com/okian/tennis-compare/internal/domain/model"
)

// Season accumulates matches for one synthetic season. Each added match gets
// the next match number within the current tournament.
type Season struct {
	set     model.MatchSet
	tourney string
	date    int
	num     int
}

// NewSeason starts a season with every optional column present and a first
// tournament dated January 1st.
func NewSeason(year int) *Season {
	s := &Season{set: model.MatchSet{Year: year, Columns: model.AllColumns()}}
	return s.Tourney(fmt.Sprintf("%d-001", year), year*10000+101)
}

// WithColumns overrides which optional columns the season reports.
func (s *Season) WithColumns(cols model.Columns) *Season {
	s.set.Columns = cols
	return s
}

// Tourney starts a new tournament; following matches belong to it.
func (s *Season) Tourney(id string, date int) *Season {
	s.tourney, s.date, s.num = id, date, 0
	return s
}

// Match appends a single result.
func (s *Season) Match(winner, loser, surface string, bestOf int, round string) *Season {
	s.num++
	date, num := s.date, s.num
	s.set.Matches = append(s.set.Matches, model.Match{
		WinnerName:  winner,
		LoserName:   loser,
		Surface:     surface,
		BestOf:      bestOf,
		Round:       round,
		TourneyDate: &date,
		MatchNum:    &num,
		TourneyID:   s.tourney,
	})
	return s
}

// Repeat appends n first-round results of winner over distinct opponents
// named after prefix.
func (s *Season) Repeat(n int, winner, prefix, surface string, bestOf int) *Season {
	for i := 0; i < n; i++ {
		s.Match(winner, fmt.Sprintf("%s %d", prefix, i), surface, bestOf, "R32")
	}
	return s
}

// Losses appends n first-round defeats of loser by distinct opponents.
func (s *Season) Losses(n int, loser, prefix, surface string, bestOf int) *Season {
	for i := 0; i < n; i++ {
		s.Match(fmt.Sprintf("%s %d", prefix, i), loser, surface, bestOf, "R32")
	}
	return s
}

// Build returns the season. Matches keep insertion order.
func (s *Season) Build() *model.MatchSet {
	out := s.set
	out.Matches = append([]model.Match(nil), s.set.Matches...)
	return &out
}

// Roster is the default roster used across tests.
func Roster() []string {
	return []string{"Rafael Nadal", "Roger Federer", "Novak Djokovic", "Andy Murray"}
}
