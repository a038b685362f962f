// Package types contains the JSON shapes shared by the HTTP API and the CLI.
package types

// Candidate is a fuzzy-match suggestion.
type Candidate struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SeasonStats is one player's descriptive season summary.
type SeasonStats struct {
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinPct  float64 `json:"win_pct"`
	Titles  *int    `json:"titles"`
	Finals  *int    `json:"finals"`
}

// Comparison is the public form of a comparison result.
type Comparison struct {
	ID             string       `json:"id,omitempty"`
	PlayerA        string       `json:"player_a"`
	YearA          int          `json:"year_a"`
	PlayerB        string       `json:"player_b"`
	YearB          int          `json:"year_b"`
	Surface        string       `json:"surface"`
	BestOf         int          `json:"best_of"`
	PAWins         float64      `json:"p_a_wins"`
	RatingA        *float64     `json:"rating_a"`
	RatingB        *float64     `json:"rating_b"`
	RatingMatchesA *int         `json:"rating_matches_a"`
	RatingMatchesB *int         `json:"rating_matches_b"`
	StatsA         *SeasonStats `json:"stats_a"`
	StatsB         *SeasonStats `json:"stats_b"`
	Notes          []string     `json:"notes"`
	Winner         string       `json:"winner"`
}

// CompareRequest is the body of POST /compare.
type CompareRequest struct {
	PlayerA string `json:"player_a"`
	YearA   int    `json:"year_a"`
	PlayerB string `json:"player_b"`
	YearB   int    `json:"year_b"`
	Surface string `json:"surface"`
	BestOf  int    `json:"best_of"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error       string      `json:"error"`
	Message     string      `json:"message"`
	Side        string      `json:"side,omitempty"`
	Query       string      `json:"query,omitempty"`
	Suggestions []Candidate `json:"suggestions,omitempty"`
}
