package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/tennis-compare/internal/domain/dedupe"
	"github.com/okian/tennis-compare/internal/domain/model"
)

const bom = "\ufeff"

// header maps column names to their index. cols keeps the names as read,
// repeats included, for error messages.
type header struct {
	index map[string]int
	cols  []string
}

func (h header) has(name string) bool {
	_, ok := h.index[name]
	return ok
}

func (h header) get(rec []string, name string) string {
	i, ok := h.index[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (h header) names() []string {
	return h.cols
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

func readHeader(cr *csv.Reader) (header, error) {
	rec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return header{}, fmt.Errorf("%w: empty file", ErrSchema)
	}
	if err != nil {
		return header{}, fmt.Errorf("read header: %w", err)
	}
	h := header{index: make(map[string]int, len(rec)), cols: make([]string, len(rec))}
	for i, name := range rec {
		if i == 0 {
			name = strings.TrimPrefix(name, bom)
		}
		name = strings.TrimSpace(name)
		h.cols[i] = name
		h.index[name] = i
	}
	return h, nil
}

// ParsePlayers reads a players CSV and returns distinct display names in
// file order. Both the first_name/last_name and the name_first/name_last
// layouts are accepted.
func ParsePlayers(r io.Reader) ([]string, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	var firstCol, lastCol string
	switch {
	case h.has("first_name") && h.has("last_name"):
		firstCol, lastCol = "first_name", "last_name"
	case h.has("name_first") && h.has("name_last"):
		firstCol, lastCol = "name_first", "name_last"
	default:
		return nil, fmt.Errorf("%w: no name columns in players file; columns available: %v", ErrSchema, h.names())
	}

	seen := dedupe.New()
	names := make([]string, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read players: %w", err)
		}
		name := strings.TrimSpace(h.get(rec, firstCol) + " " + h.get(rec, lastCol))
		if name == "" || seen.SeenAndRecord(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// ParseMatches reads one season of matches. winner_name and loser_name are
// required; the other columns are optional and recorded in Columns.
func ParseMatches(r io.Reader, year int) (*model.MatchSet, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if !h.has("winner_name") || !h.has("loser_name") {
		return nil, fmt.Errorf("%w: matches file for %d lacks winner_name/loser_name; columns available: %v", ErrSchema, year, h.names())
	}

	set := &model.MatchSet{
		Year: year,
		Columns: model.Columns{
			Surface:     h.has("surface"),
			BestOf:      h.has("best_of"),
			Round:       h.has("round"),
			TourneyID:   h.has("tourney_id"),
			TourneyDate: h.has("tourney_date"),
			MatchNum:    h.has("match_num"),
		},
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read matches %d: %w", year, err)
		}
		m := model.Match{
			WinnerName:  h.get(rec, "winner_name"),
			LoserName:   h.get(rec, "loser_name"),
			Surface:     h.get(rec, "surface"),
			Round:       h.get(rec, "round"),
			TourneyID:   h.get(rec, "tourney_id"),
			TourneyDate: optionalInt(h.get(rec, "tourney_date")),
			MatchNum:    optionalInt(h.get(rec, "match_num")),
		}
		if bo := optionalInt(h.get(rec, "best_of")); bo != nil {
			m.BestOf = *bo
		}
		set.Matches = append(set.Matches, m)
	}
	return set, nil
}

// optionalInt coerces s to an integer; "5.0" is 5, anything non-integral is absent.
func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	v := int(f)
	return &v
}
