package rating

import (
	"github.com/quantav/stockscope/pkg/models"
)

// Volume thresholds for the overall rating's liquidity factor.
const (
	heavyVolume  = 10_000_000
	activeVolume = 1_000_000
)

// Overall computes the 1–5 snapshot rating from six independently weighted
// factors. Each factor counts toward the average only when its inputs are
// available; with nothing applicable the rating is neutral (3).
func Overall(meta *models.QuoteMeta, ind models.Indicators) int {
	var sc Scorecard

	// 52-week range position.
	if meta != nil && meta.WeekHigh52 > meta.WeekLow52 {
		pos := (meta.Price - meta.WeekLow52) / (meta.WeekHigh52 - meta.WeekLow52)
		switch {
		case pos > 0.7:
			sc.Add(true, 1)
		case pos > 0.4:
			sc.Add(true, 0.5)
		default:
			sc.Add(true, 0)
		}
	}

	// Price versus moving averages: one factor whenever either MA exists.
	if meta != nil && (ind.MA10 != nil || ind.MA20 != nil) {
		contrib := 0.0
		if ind.MA10 != nil && meta.Price > *ind.MA10 {
			contrib += 0.5
		}
		if ind.MA20 != nil && meta.Price > *ind.MA20 {
			contrib += 0.5
		}
		sc.Add(true, contrib)
	}

	// Daily percent change. Always applicable: a missing percentage counts as
	// the flat case, not as a skipped factor.
	contrib := 0.0
	if ind.ChangePct != nil {
		switch pct := *ind.ChangePct; {
		case pct > 1:
			contrib = 1
		case pct > 0:
			contrib = 0.5
		case pct < -1:
			contrib = -0.5
		}
	}
	sc.Add(true, contrib)

	// Volume. Always applicable.
	volContrib := 0.0
	if meta != nil {
		switch {
		case meta.Volume > heavyVolume:
			volContrib = 1
		case meta.Volume > activeVolume:
			volContrib = 0.5
		}
	}
	sc.Add(true, volContrib)

	// Volatility band. Applicable only when volatility could be computed.
	if ind.VolatilityPct != nil {
		v := *ind.VolatilityPct
		switch {
		case v > 20 && v < 50:
			sc.Add(true, 1)
		case v >= 15 && v <= 60:
			sc.Add(true, 0.5)
		default:
			sc.Add(true, 0)
		}
	}

	return sc.Rate(1, 5, 3)
}
