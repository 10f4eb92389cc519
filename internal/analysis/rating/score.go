// Package rating turns indicator outputs and extracted section fields into
// bounded integer ratings. All raters share one accumulation pattern: factors
// contribute only when their inputs exist, and the score is averaged over
// applicable factors so missing data is never penalized as zero.
package rating

import "math"

// Scorecard accumulates weighted factor contributions together with the count
// of applicable factors.
type Scorecard struct {
	score      float64
	applicable int
}

// Add records one factor. Inapplicable factors contribute nothing and do not
// count toward the average.
func (sc *Scorecard) Add(applicable bool, contribution float64) {
	if !applicable {
		return
	}
	sc.score += contribution
	sc.applicable++
}

// Applicable returns the number of factors that counted.
func (sc *Scorecard) Applicable() int { return sc.applicable }

// Rate normalizes the accumulated score to [lo,hi]: the average contribution
// is scaled by hi, clamped, and rounded. With zero applicable factors the
// neutral value is returned instead of dividing by zero.
func (sc *Scorecard) Rate(lo, hi, neutral int) int {
	if sc.applicable == 0 {
		return neutral
	}
	v := sc.score / float64(sc.applicable) * float64(hi)
	return int(math.Round(clamp(v, float64(lo), float64(hi))))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// capTen clamps an additive section score into [0,10].
func capTen(v int) int {
	if v > 10 {
		return 10
	}
	if v < 0 {
		return 0
	}
	return v
}
