package snapshot

import (
	"fmt"

	"github.com/quantav/stockscope/internal/analysis/rating"
	"github.com/quantav/stockscope/pkg/models"
	"github.com/quantav/stockscope/pkg/utils"
)

// The quantitative snapshot's sub-reports are built from price history and
// quote meta alone. Dimensions with no quantitative inputs hold their base
// rating rather than being penalized for data the snapshot never fetches.

func marketPositionReport(meta *models.QuoteMeta) models.SubReport {
	score := 5
	summary := fmt.Sprintf("%s trades at %s %s.", meta.Symbol, utils.FormatPrice(meta.Price), meta.Currency)

	if meta.WeekHigh52 > meta.WeekLow52 {
		pos := (meta.Price - meta.WeekLow52) / (meta.WeekHigh52 - meta.WeekLow52)
		switch {
		case pos > 0.7:
			score += 2
			summary += " The price sits in the upper part of its 52-week range."
		case pos > 0.4:
			score++
			summary += " The price sits in the middle of its 52-week range."
		default:
			summary += " The price sits in the lower part of its 52-week range."
		}
	} else {
		summary += " The 52-week range is not available."
	}
	if meta.Volume > 10_000_000 {
		score++
	}

	details := []string{
		"Current price: " + utils.FormatPrice(meta.Price),
		fmt.Sprintf("Day range: %s – %s", utils.FormatPrice(meta.DayLow), utils.FormatPrice(meta.DayHigh)),
		fmt.Sprintf("52-week range: %s – %s", utils.FormatPrice(meta.WeekLow52), utils.FormatPrice(meta.WeekHigh52)),
		"Volume: " + utils.FormatVolume(meta.Volume),
		"Exchange: " + utils.OrNA(meta.Exchange),
	}
	return models.SubReport{Rating: capTen(score), Summary: summary, Details: details}
}

func quantFinancialsReport(meta *models.QuoteMeta, ind models.Indicators) models.SubReport {
	summary := "Financial statement data is not part of the quantitative snapshot; " +
		"request the financialHealth section for statement-level analysis."
	details := []string{
		"Previous close: " + utils.FormatPrice(meta.PrevClose),
		"Day change: " + utils.FormatPctPtr(ind.ChangePct),
	}
	return models.SubReport{Rating: 5, Summary: summary, Details: details}
}

func technicalReport(meta *models.QuoteMeta, ind models.Indicators) models.SubReport {
	score, _ := rating.Technical(meta, ind)

	trend := "Moving averages are not available from the current history."
	if ind.MA10 != nil && ind.MA20 != nil {
		if meta.Price > *ind.MA10 && meta.Price > *ind.MA20 {
			trend = "The price is above both short-term moving averages, a near-term uptrend."
		} else if meta.Price < *ind.MA10 && meta.Price < *ind.MA20 {
			trend = "The price is below both short-term moving averages, a near-term downtrend."
		} else {
			trend = "The price is between its short-term moving averages."
		}
	}

	details := []string{
		"10-day MA: " + utils.FormatPricePtr(ind.MA10),
		"20-day MA: " + utils.FormatPricePtr(ind.MA20),
		"Annualized volatility: " + utils.FormatPctPtr(ind.VolatilityPct),
		"Day change: " + utils.FormatPctPtr(ind.ChangePct),
	}
	return models.SubReport{Rating: score, Summary: trend, Details: details}
}

func quantOptionsReport(meta *models.QuoteMeta) models.SubReport {
	summary := "Options metrics are not part of the quantitative snapshot; " +
		"request the optionsData section for chain-level analysis."
	details := []string{
		fmt.Sprintf("Day range: %s – %s", utils.FormatPrice(meta.DayLow), utils.FormatPrice(meta.DayHigh)),
	}
	return models.SubReport{Rating: 5, Summary: summary, Details: details}
}

func quantNewsReport(symbol string) models.SubReport {
	return models.SubReport{
		Rating: 5,
		Summary: fmt.Sprintf("No headline data is included in the quantitative snapshot for %s; "+
			"request the recentDevelopments section for news sentiment.", symbol),
		Details: []string{"Headlines reviewed: 0"},
	}
}

// sectionMetrics renders the label/value list for a section analysis. Every
// documented field appears; missing values carry the explicit sentinel. The
// financial section's empty case keeps its three generic placeholders.
func sectionMetrics(section models.Section, data models.SectionData, meta *models.QuoteMeta, ind *models.Indicators) []models.Metric {
	f := data.Fields
	switch section {
	case models.SectionCompany:
		return []models.Metric{
			{Label: "Company", Value: utils.OrNA(f["companyName"])},
			{Label: "Sector", Value: utils.OrNA(f["sector"])},
			{Label: "Industry", Value: utils.OrNA(f["industry"])},
			{Label: "Market cap", Value: utils.OrNA(f["marketCap"])},
		}

	case models.SectionFinancial:
		if data.Fields.Present() == 0 {
			return []models.Metric{
				{Label: "Revenue", Value: utils.NotAvailable},
				{Label: "Net income", Value: utils.NotAvailable},
				{Label: "Profit margin", Value: utils.NotAvailable},
			}
		}
		return []models.Metric{
			{Label: "Revenue", Value: utils.OrNA(f["revenue"])},
			{Label: "Net income", Value: utils.OrNA(f["netIncome"])},
			{Label: "Profit margin", Value: utils.OrNA(f["profitMargin"])},
			{Label: "EPS", Value: utils.OrNA(f["eps"])},
			{Label: "P/E ratio", Value: utils.OrNA(f["peRatio"])},
			{Label: "Debt to equity", Value: utils.OrNA(f["debtToEquity"])},
		}

	case models.SectionTechnical:
		metrics := []models.Metric{
			{Label: "Beta", Value: utils.OrNA(f["beta"])},
			{Label: "Average volume", Value: utils.OrNA(f["avgVolume"])},
		}
		if meta != nil {
			metrics = append(metrics, models.Metric{Label: "Current price", Value: utils.FormatPrice(meta.Price)})
		}
		if ind != nil {
			metrics = append(metrics,
				models.Metric{Label: "10-day MA", Value: utils.FormatPricePtr(ind.MA10)},
				models.Metric{Label: "20-day MA", Value: utils.FormatPricePtr(ind.MA20)},
				models.Metric{Label: "Annualized volatility", Value: utils.FormatPctPtr(ind.VolatilityPct)},
			)
		}
		return metrics

	case models.SectionOptions:
		return []models.Metric{
			{Label: "Implied volatility", Value: utils.OrNA(f["impliedVolatility"])},
			{Label: "Put/call ratio", Value: utils.OrNA(f["putCallRatio"])},
			{Label: "Open interest", Value: utils.OrNA(f["openInterest"])},
			{Label: "Option volume", Value: utils.OrNA(f["optionVolume"])},
		}

	case models.SectionNews:
		metrics := []models.Metric{
			{Label: "Headlines found", Value: fmt.Sprintf("%d", len(data.Headlines))},
		}
		for i, h := range data.Headlines {
			if i >= 5 {
				break
			}
			metrics = append(metrics, models.Metric{Label: fmt.Sprintf("Headline %d", i+1), Value: h})
		}
		return metrics
	}
	return nil
}

func capTen(v int) int {
	if v > 10 {
		return 10
	}
	return v
}
