package compare

// Default verdict thresholds, symmetric around 0.50.
const (
	DefaultWinThreshold  = 0.60
	DefaultLossThreshold = 0.40

	// TooCloseToCall is the winner label inside the neutral band.
	TooCloseToCall = "too close to call"
)

// Verdict is the categorical outcome of a comparison.
type Verdict int

const (
	VerdictTooClose Verdict = iota
	VerdictPlayerA
	VerdictPlayerB
)

func (v Verdict) String() string {
	switch v {
	case VerdictPlayerA:
		return "player_a"
	case VerdictPlayerB:
		return "player_b"
	default:
		return "too_close"
	}
}

// Thresholds bound the neutral band of the classifier.
type Thresholds struct {
	Win  float64 // p >= Win picks player A
	Loss float64 // p <= Loss picks player B
}

// DefaultThresholds returns the 0.60 / 0.40 band.
func DefaultThresholds() Thresholds {
	return Thresholds{Win: DefaultWinThreshold, Loss: DefaultLossThreshold}
}

// Valid reports whether the band is well formed.
func (t Thresholds) Valid() bool {
	return t.Loss > 0 && t.Loss < t.Win && t.Win < 1
}

// Classify maps player A's win probability to a verdict.
func Classify(p float64, t Thresholds) Verdict {
	switch {
	case p >= t.Win:
		return VerdictPlayerA
	case p <= t.Loss:
		return VerdictPlayerB
	default:
		return VerdictTooClose
	}
}

// winnerLabel names the winner for display.
func winnerLabel(v Verdict, playerA, playerB string) string {
	switch v {
	case VerdictPlayerA:
		return playerA
	case VerdictPlayerB:
		return playerB
	default:
		return TooCloseToCall
	}
}
