// Package indicators computes the derived technical values for a price
// series: simple moving averages, day change, and annualized volatility.
// Every function reports availability explicitly; a value that cannot be
// computed is absent, never zero.
package indicators

import (
	"math"

	"github.com/quantav/stockscope/pkg/models"
)

// tradingDaysPerYear is the annualization constant for daily sampling.
const tradingDaysPerYear = 252

// minVolatilityPrices is the fewest valid closes volatility accepts.
const minVolatilityPrices = 5

// MovingAverage returns the arithmetic mean of the last period non-nil
// closes. ok is false when fewer than period valid points exist; a partial
// average is never returned.
func MovingAverage(s *models.PriceSeries, period int) (float64, bool) {
	if s == nil || period <= 0 {
		return 0, false
	}
	valid := s.Valid()
	if len(valid) < period {
		return 0, false
	}
	sum := 0.0
	for _, c := range valid[len(valid)-period:] {
		sum += c
	}
	return sum / float64(period), true
}

// Volatility returns the annualized volatility of the series as a percentage:
// the population standard deviation of period-over-period returns scaled by
// √252. Daily sampling is assumed. ok is false with fewer than five valid
// closes or when no return can be formed.
func Volatility(s *models.PriceSeries) (float64, bool) {
	if s == nil {
		return 0, false
	}
	valid := s.Valid()
	if len(valid) < minVolatilityPrices {
		return 0, false
	}

	returns := make([]float64, 0, len(valid)-1)
	for i := 1; i < len(valid); i++ {
		if valid[i-1] == 0 {
			continue
		}
		returns = append(returns, (valid[i]-valid[i-1])/valid[i-1])
	}
	if len(returns) == 0 {
		return 0, false
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear) * 100, true
}

// PriceChange returns the absolute and percentage change from previous to
// current. pctOK is false when previous is zero, in which case the percentage
// is unavailable rather than a division by zero.
func PriceChange(current, previous float64) (abs float64, pct float64, pctOK bool) {
	abs = current - previous
	if previous == 0 {
		return abs, 0, false
	}
	return abs, abs / previous * 100, true
}

// Compute derives the full indicator set for one request from the price
// series and quote meta. Absent indicators stay nil.
func Compute(s *models.PriceSeries, meta *models.QuoteMeta) models.Indicators {
	var ind models.Indicators

	if v, ok := MovingAverage(s, 10); ok {
		ind.MA10 = &v
	}
	if v, ok := MovingAverage(s, 20); ok {
		ind.MA20 = &v
	}
	if v, ok := Volatility(s); ok {
		ind.VolatilityPct = &v
	}

	if meta != nil {
		abs, pct, pctOK := PriceChange(meta.Price, meta.PrevClose)
		ind.ChangeAbs = &abs
		if pctOK {
			ind.ChangePct = &pct
		}
	}

	return ind
}
