package rating

import (
	"fmt"

	"github.com/quantav/stockscope/pkg/models"
)

// Per-section base scores. Sections start above the floor and earn bonuses
// for the data actually extracted; the result is capped into [0,10].
const (
	companyBase   = 6
	financialBase = 5
	technicalBase = 6
	optionsBase   = 5
	newsBase      = 5
)

// financialLineItems are the extracted fields that count as line items for
// the financial-health bonus.
var financialLineItems = []string{
	"revenue", "netIncome", "profitMargin", "eps", "peRatio", "debtToEquity",
}

// optionMetricFields are the fields whose presence marks usable options data.
var optionMetricFields = []string{
	"impliedVolatility", "putCallRatio", "openInterest", "optionVolume",
}

// Company rates the company-analysis section from extracted profile fields.
func Company(data models.SectionData) (int, []models.Signal) {
	score := companyBase
	var signals []models.Signal

	if data.Fields.Has("sector") {
		score++
		signals = append(signals, models.Signal{
			Type:    models.SignalInfo,
			Message: "Sector: " + data.Fields["sector"],
		})
	}
	if data.Fields.Has("marketCap") {
		score++
	}
	if data.Fields.Present() == 0 {
		signals = append(signals, models.Signal{
			Type:    models.SignalWarning,
			Message: "No company profile data could be retrieved",
		})
	}
	return capTen(score), signals
}

// Financial rates the financial-health section by how many line items the
// extractor recovered. Missing data keeps the base score; it is never
// penalized below it.
func Financial(data models.SectionData) (int, []models.Signal) {
	found := 0
	for _, f := range financialLineItems {
		if data.Fields.Has(f) {
			found++
		}
	}

	score := financialBase
	var signals []models.Signal
	switch {
	case found > 3:
		score += 2
		signals = append(signals, models.Signal{
			Type:    models.SignalPositive,
			Message: fmt.Sprintf("%d of %d financial line items available", found, len(financialLineItems)),
		})
	case found > 0:
		score++
		signals = append(signals, models.Signal{
			Type:    models.SignalInfo,
			Message: fmt.Sprintf("%d of %d financial line items available", found, len(financialLineItems)),
		})
	default:
		signals = append(signals, models.Signal{
			Type:    models.SignalWarning,
			Message: "No financial line items could be extracted",
		})
	}
	return capTen(score), signals
}

// Technical rates the technical section from the computed indicators.
func Technical(meta *models.QuoteMeta, ind models.Indicators) (int, []models.Signal) {
	score := technicalBase
	var signals []models.Signal

	above := 0
	if meta != nil && ind.MA10 != nil && meta.Price > *ind.MA10 {
		score++
		above++
	}
	if meta != nil && ind.MA20 != nil && meta.Price > *ind.MA20 {
		score++
		above++
	}
	if above == 2 {
		signals = append(signals, models.Signal{
			Type:    models.SignalPositive,
			Message: "Price above both 10-day and 20-day moving averages",
		})
	}

	switch {
	case ind.VolatilityPct == nil:
		signals = append(signals, models.Signal{
			Type:    models.SignalInfo,
			Message: "Volatility not available from the current price history",
		})
	case *ind.VolatilityPct > 20 && *ind.VolatilityPct < 50:
		score++
	case *ind.VolatilityPct >= 60:
		signals = append(signals, models.Signal{
			Type:    models.SignalWarning,
			Message: fmt.Sprintf("Elevated annualized volatility at %.1f%%", *ind.VolatilityPct),
		})
	}

	return capTen(score), signals
}

// Options rates the options section on presence of extracted metrics.
func Options(data models.SectionData) (int, []models.Signal) {
	present := false
	for _, f := range optionMetricFields {
		if data.Fields.Has(f) {
			present = true
			break
		}
	}

	score := optionsBase
	var signals []models.Signal
	if present {
		score += 2
		signals = append(signals, models.Signal{
			Type:    models.SignalInfo,
			Message: "Options metrics available for this symbol",
		})
	} else {
		signals = append(signals, models.Signal{
			Type:    models.SignalWarning,
			Message: "No options metrics could be retrieved",
		})
	}
	return capTen(score), signals
}

// News rates the recent-developments section by the headline sentiment tally.
// A tie produces no sentiment signal and no bonus.
func News(headlines []string) (int, []models.Signal) {
	score := newsBase
	var signals []models.Signal

	if len(headlines) == 0 {
		signals = append(signals, models.Signal{
			Type:    models.SignalWarning,
			Message: "No recent headlines found",
		})
		return capTen(score), signals
	}

	pos, neg := SentimentTally(headlines)
	switch {
	case pos > neg:
		score++
		signals = append(signals, models.Signal{
			Type:    models.SignalPositive,
			Message: fmt.Sprintf("Positive news sentiment (%d positive vs %d negative mentions)", pos, neg),
		})
	case neg > pos:
		score--
		signals = append(signals, models.Signal{
			Type:    models.SignalWarning,
			Message: fmt.Sprintf("Negative news sentiment (%d negative vs %d positive mentions)", neg, pos),
		})
	}
	signals = append(signals, models.Signal{
		Type:    models.SignalInfo,
		Message: fmt.Sprintf("%d recent headlines reviewed", len(headlines)),
	})

	return capTen(score), signals
}
