// Package resolve maps free-text player queries onto roster names.
package resolve

import (
	"strings"
	"sync"
)

// Default resolver configuration constants.
const (
	defaultLimit    = 5
	defaultMinScore = 80
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLimit sets how many ranked candidates are returned.
func WithLimit(limit int) Option {
	return func(r *Resolver) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// WithMinScore sets the score the best candidate needs to be accepted.
func WithMinScore(score int) Option {
	return func(r *Resolver) {
		if score >= 0 && score <= maxScore {
			r.minScore = score
		}
	}
}

// Candidate is a roster name with its similarity to the query (0-100).
type Candidate struct {
	Name  string
	Score int
}

// Resolver performs exact-then-fuzzy name resolution. It keeps the
// normalized form of the last roster it saw; roster slices must not be
// modified after they are passed in.
type Resolver struct {
	limit    int
	minScore int

	mu       sync.Mutex
	rosterAt *string
	rosterN  int
	prepared []prepared
}

// New creates a resolver with configuration options.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		limit:    defaultLimit,
		minScore: defaultMinScore,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the canonical roster name for query plus ranked
// alternatives. A case-insensitive exact match returns immediately with no
// alternatives. Otherwise the best fuzzy candidate is accepted only when it
// scores at least the minimum; on failure the name is empty and the ranked
// candidates are the suggestions.
func (r *Resolver) Resolve(roster []string, query string) (string, []Candidate) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", []Candidate{}
	}

	names := r.prepare(roster)
	lowered := strings.ToLower(query)
	for i, p := range names {
		if p.lower == lowered {
			return roster[i], []Candidate{}
		}
	}

	ranked := r.rank(roster, names, query, r.limit)
	if len(ranked) > 0 && ranked[0].Score >= r.minScore {
		return ranked[0].Name, ranked
	}
	return "", ranked
}

// Rank scores roster names against query and returns the top limit by
// descending score. Equal scores keep roster order.
func (r *Resolver) Rank(roster []string, query string, limit int) []Candidate {
	return r.rank(roster, r.prepare(roster), query, limit)
}

func (r *Resolver) rank(roster []string, names []prepared, query string, limit int) []Candidate {
	if limit <= 0 {
		limit = r.limit
	}
	query = strings.TrimSpace(query)
	if query == "" || len(roster) == 0 {
		return []Candidate{}
	}

	q := prepare(query)
	top := make([]Candidate, 0, limit)
	for i, p := range names {
		full := len(top) == limit
		if full && scoreCap(q, p) <= top[limit-1].Score {
			continue
		}
		score := wratio(q, p)
		if full && score <= top[limit-1].Score {
			continue
		}
		top = insertRanked(top, Candidate{Name: roster[i], Score: score}, limit)
	}
	return top
}

// insertRanked places c after every candidate scoring at least as much,
// dropping the last entry when top is already at limit.
func insertRanked(top []Candidate, c Candidate, limit int) []Candidate {
	at := len(top)
	for at > 0 && top[at-1].Score < c.Score {
		at--
	}
	if len(top) < limit {
		top = append(top, Candidate{})
	}
	copy(top[at+1:], top[at:len(top)-1])
	top[at] = c
	return top
}

// prepare returns the normalized roster, rebuilding it only when a different
// roster slice is passed.
func (r *Resolver) prepare(roster []string) []prepared {
	if len(roster) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rosterAt == &roster[0] && r.rosterN == len(roster) {
		return r.prepared
	}
	out := make([]prepared, len(roster))
	for i, name := range roster {
		out[i] = prepare(name)
	}
	r.rosterAt, r.rosterN, r.prepared = &roster[0], len(roster), out
	return out
}
