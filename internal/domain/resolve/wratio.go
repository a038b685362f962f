package resolve

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

const (
	maxScore = 100

	tokenScale        = 0.95
	partialScale      = 0.9
	longPartialScale  = 0.6
	partialLenRatio   = 1.5
	longPartialCutoff = 8.0
)

// prepared is a normalized string with the token forms WRatio needs.
type prepared struct {
	lower  string
	norm   string
	runes  int
	sorted string
	// set holds the distinct tokens in ascending order.
	set []string
}

func prepare(s string) prepared {
	norm := normalize(s)
	tokens := strings.Fields(norm)
	sort.Strings(tokens)
	set := make([]string, 0, len(tokens))
	for i, t := range tokens {
		if i == 0 || t != tokens[i-1] {
			set = append(set, t)
		}
	}
	return prepared{
		lower:  strings.ToLower(s),
		norm:   norm,
		runes:  runeLen(norm),
		sorted: strings.Join(tokens, " "),
		set:    set,
	}
}

// WRatio is a weighted similarity score in [0, 100]. It takes the best of a
// plain edit-distance ratio and token-order / token-subset variants, switching
// to substring alignment when the two strings differ a lot in length.
func WRatio(a, b string) int {
	return wratio(prepare(a), prepare(b))
}

func wratio(pa, pb prepared) int {
	if pa.runes == 0 || pb.runes == 0 {
		return 0
	}

	lenRatio := lengthRatio(pa, pb)
	best := ratio(pa.norm, pb.norm)
	if lenRatio < partialLenRatio {
		best = math.Max(best, ratio(pa.sorted, pb.sorted)*tokenScale)
		best = math.Max(best, tokenSetRatio(pa, pb, ratio)*tokenScale)
		return int(math.Round(best))
	}

	scale := partialScale
	if lenRatio > longPartialCutoff {
		scale = longPartialScale
	}
	best = math.Max(best, partialRatio(pa.norm, pb.norm)*scale)
	best = math.Max(best, partialRatio(pa.sorted, pb.sorted)*tokenScale*scale)
	best = math.Max(best, tokenSetRatio(pa, pb, partialRatio)*tokenScale*scale)
	return int(math.Round(best))
}

// scoreCap is an upper bound on wratio(pa, pb) that needs only the lengths.
// The plain ratio cannot beat 100 * shorter / longer, since the edit distance
// is at least the length difference; every other term is capped by its scale.
func scoreCap(pa, pb prepared) int {
	if pa.runes == 0 || pb.runes == 0 {
		return 0
	}
	lenRatio := lengthRatio(pa, pb)
	plain := maxScore / lenRatio
	switch {
	case lenRatio < partialLenRatio:
		return int(math.Ceil(math.Max(plain, maxScore*tokenScale)))
	case lenRatio > longPartialCutoff:
		return int(math.Ceil(math.Max(plain, maxScore*longPartialScale)))
	default:
		return int(math.Ceil(math.Max(plain, maxScore*partialScale)))
	}
}

func lengthRatio(pa, pb prepared) float64 {
	return float64(max(pa.runes, pb.runes)) / float64(min(pa.runes, pb.runes))
}

// normalize lowercases, replaces punctuation with spaces and collapses runs of spaces.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func runeLen(s string) int {
	return len([]rune(s))
}

// ratio is 100 * (1 - distance / longer length).
func ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	longest := max(runeLen(a), runeLen(b))
	d := levenshtein.ComputeDistance(a, b)
	return maxScore * (1 - float64(d)/float64(longest))
}

// partialRatio aligns the shorter string against every window of the longer one.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == maxScore {
				break
			}
		}
	}
	return best
}

// tokenSetRatio compares the shared tokens against each side's full token set.
func tokenSetRatio(pa, pb prepared, score func(string, string) float64) float64 {
	shared, onlyA, onlyB := splitSets(pa.set, pb.set)

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := score(sect, combinedA)
	best = math.Max(best, score(sect, combinedB))
	best = math.Max(best, score(combinedA, combinedB))
	return best
}

// splitSets merges two ascending token sets into their intersection and the
// tokens unique to each side, all still ascending.
func splitSets(a, b []string) (shared, onlyA, onlyB []string) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			shared = append(shared, a[i])
			i++
			j++
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		default:
			onlyB = append(onlyB, b[j])
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)
	return shared, onlyA, onlyB
}
