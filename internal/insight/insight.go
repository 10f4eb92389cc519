// Package insight produces the short natural-language analysis for each
// section. When a generation backend is configured it gets one bounded
// request; on any failure the deterministic template path takes over. The
// template path is pure string interpolation over already-validated optional
// fields and cannot fail.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/llm"
	"github.com/quantav/stockscope/pkg/models"
	"github.com/quantav/stockscope/pkg/utils"
)

const systemPrompt = "You are an equity research assistant. Write two or three " +
	"plain sentences for a retail investor. Reference only the data provided; " +
	"say a value is not available rather than guessing. No investment advice."

// Generator builds section insights. provider may be nil, in which case every
// insight comes from the template path.
type Generator struct {
	provider  llm.Provider
	model     string
	maxTokens int
	log       zerolog.Logger
}

// NewGenerator creates an insight generator. A nil provider is valid and
// means no generation credential is configured.
func NewGenerator(provider llm.Provider, model string, maxTokens int, log zerolog.Logger) *Generator {
	if maxTokens <= 0 {
		maxTokens = 400
	}
	return &Generator{
		provider:  provider,
		model:     model,
		maxTokens: maxTokens,
		log:       log.With().Str("component", "insight").Logger(),
	}
}

// Insight returns the analysis text for one section. ind may be nil for
// sections with no indicator context.
func (g *Generator) Insight(ctx context.Context, symbol string, section models.Section, data models.SectionData, ind *models.Indicators, rating int) string {
	if g.provider != nil {
		prompt := g.buildPrompt(symbol, section, data, ind, rating)
		text, err := g.provider.Generate(ctx, systemPrompt, prompt, llm.GenerateOptions{
			Model:     g.model,
			MaxTokens: g.maxTokens,
		})
		if err == nil && text != "" {
			return text
		}
		g.log.Debug().Err(err).
			Str("symbol", symbol).
			Str("section", string(section)).
			Msg("generation failed, using template")
	}
	return Fallback(symbol, section, data, ind, rating)
}

// buildPrompt embeds the extracted fields into a section-specific prompt.
// Missing fields are rendered with the explicit sentinel so the model cannot
// invent them.
func (g *Generator) buildPrompt(symbol string, section models.Section, data models.SectionData, ind *models.Indicators, rating int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\nSection: %s\nRating (out of 10): %d\n", symbol, sectionLabel(section), rating)

	for _, name := range sortedFieldNames(data.Fields) {
		fmt.Fprintf(&b, "%s: %s\n", name, utils.OrNA(data.Fields[name]))
	}

	if ind != nil {
		fmt.Fprintf(&b, "10-day moving average: %s\n", utils.FormatPricePtr(ind.MA10))
		fmt.Fprintf(&b, "20-day moving average: %s\n", utils.FormatPricePtr(ind.MA20))
		fmt.Fprintf(&b, "Day change: %s\n", utils.FormatPctPtr(ind.ChangePct))
		fmt.Fprintf(&b, "Annualized volatility: %s\n", utils.FormatPctPtr(ind.VolatilityPct))
	}

	if len(data.Headlines) > 0 {
		b.WriteString("Recent headlines:\n")
		for _, h := range data.Headlines {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}

	b.WriteString("Write the analysis now.")
	return b.String()
}

func sortedFieldNames(fields models.SectionFields) []string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	// Insertion sort keeps prompt field order deterministic.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

func sectionLabel(section models.Section) string {
	switch section {
	case models.SectionCompany:
		return "Company analysis"
	case models.SectionFinancial:
		return "Financial health"
	case models.SectionTechnical:
		return "Technical analysis"
	case models.SectionOptions:
		return "Options data"
	case models.SectionNews:
		return "Recent developments"
	default:
		return string(section)
	}
}

// Fallback assembles the deterministic templated analysis. Every field
// defaults to the fixed placeholder phrase when absent, so the text never
// references an undefined value.
func Fallback(symbol string, section models.Section, data models.SectionData, ind *models.Indicators, rating int) string {
	f := data.Fields
	switch section {
	case models.SectionCompany:
		return fmt.Sprintf(
			"%s operates in the %s sector (%s industry) with a market capitalization of %s. Based on the available profile data the section scores %d out of 10.",
			symbol, utils.OrNA(f["sector"]), utils.OrNA(f["industry"]), utils.OrNA(f["marketCap"]), rating)

	case models.SectionFinancial:
		return fmt.Sprintf(
			"%s reports revenue of %s and net income of %s, with a profit margin of %s and earnings per share of %s. Financial health is rated %d out of 10 on the extracted line items.",
			symbol, utils.OrNA(f["revenue"]), utils.OrNA(f["netIncome"]), utils.OrNA(f["profitMargin"]), utils.OrNA(f["eps"]), rating)

	case models.SectionTechnical:
		ma10, ma20, vol := utils.NotAvailable, utils.NotAvailable, utils.NotAvailable
		if ind != nil {
			ma10 = utils.FormatPricePtr(ind.MA10)
			ma20 = utils.FormatPricePtr(ind.MA20)
			vol = utils.FormatPctPtr(ind.VolatilityPct)
		}
		return fmt.Sprintf(
			"%s shows a 10-day moving average of %s and a 20-day moving average of %s, with annualized volatility at %s. The technical picture rates %d out of 10.",
			symbol, ma10, ma20, vol, rating)

	case models.SectionOptions:
		return fmt.Sprintf(
			"Options activity for %s shows implied volatility of %s, a put/call ratio of %s, and open interest of %s. The options data scores %d out of 10.",
			symbol, utils.OrNA(f["impliedVolatility"]), utils.OrNA(f["putCallRatio"]), utils.OrNA(f["openInterest"]), rating)

	case models.SectionNews:
		if len(data.Headlines) == 0 {
			return fmt.Sprintf(
				"No recent headlines were found for %s. Without news flow to assess, the section holds its base rating of %d out of 10.",
				symbol, rating)
		}
		return fmt.Sprintf(
			"Recent coverage of %s includes %d headlines, most recently: %q. News sentiment places the section at %d out of 10.",
			symbol, len(data.Headlines), data.Headlines[0], rating)

	default:
		return fmt.Sprintf("Analysis for %s is based on the available data and rates %d out of 10.", symbol, rating)
	}
}
