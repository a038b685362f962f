// Package probability turns rating differentials into win probabilities.
package probability

import "math"

const (
	// logisticScale is the rating gap at which the favourite is ten times as likely to win.
	logisticScale = 400.0

	clampEpsilon = 1e-6
)

// Expected returns the expected score of a player rated a against one rated b.
func Expected(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, -(a-b)/logisticScale))
}

// MatchProbability is the single-contest win probability of a over b,
// evaluated once on final ratings.
func MatchProbability(ratingA, ratingB float64) float64 {
	return Expected(ratingA, ratingB)
}

// maxProbability is the largest float64 below 1.
var maxProbability = math.Nextafter(1, 0)

// AdjustForFormat converts a per-set win probability into a best-of-N match
// win probability, treating sets as independent. Only best-of-3 and best-of-5
// are defined; any other value returns p unchanged. p is clamped away from 0
// and 1 first, and the result stays strictly inside (0, 1).
func AdjustForFormat(p float64, bestOf int) float64 {
	p = math.Max(clampEpsilon, math.Min(1-clampEpsilon, p))

	var f func(float64) float64
	switch bestOf {
	case 3:
		f = bestOfThree
	case 5:
		f = bestOfFive
	default:
		return p
	}
	// f(p) + f(1-p) = 1. The upper half is taken from the lower one, where
	// the polynomials do not round past 1.
	if p > 0.5 {
		return math.Min(maxProbability, 1-f(1-p))
	}
	return f(p)
}

func bestOfThree(p float64) float64 {
	return p * p * (3 - 2*p)
}

func bestOfFive(p float64) float64 {
	return p * p * p * (10 - 15*p + 6*p*p)
}
