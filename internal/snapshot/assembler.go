// Package snapshot orchestrates the research pipeline: market data in,
// indicators, ratings, insight text, and the assembled output per symbol.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/quantav/stockscope/internal/analysis/indicators"
	"github.com/quantav/stockscope/internal/analysis/rating"
	"github.com/quantav/stockscope/internal/insight"
	"github.com/quantav/stockscope/internal/source"
	"github.com/quantav/stockscope/pkg/models"
	"github.com/quantav/stockscope/pkg/utils"
)

// Assembler wires the engine components together. All collaborators are
// injected; the assembler holds no mutable request state, so one instance
// serves concurrent requests.
type Assembler struct {
	chart    *source.ChartClient
	resolver *source.Resolver
	insight  *insight.Generator
	log      zerolog.Logger
}

// NewAssembler creates an assembler over the given collaborators.
func NewAssembler(chart *source.ChartClient, resolver *source.Resolver, gen *insight.Generator, log zerolog.Logger) *Assembler {
	return &Assembler{
		chart:    chart,
		resolver: resolver,
		insight:  gen,
		log:      log.With().Str("component", "assembler").Logger(),
	}
}

// Snapshot builds the quantitative research snapshot for a symbol from price
// history and quote meta alone. A symbol with no chart data at all is a hard
// failure; everything below that degrades per sub-report.
func (a *Assembler) Snapshot(ctx context.Context, rawSymbol string) (*models.ResearchSnapshot, error) {
	symbol, err := utils.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}

	md, err := a.chart.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	ind := indicators.Compute(&md.Series, &md.Meta)

	snap := &models.ResearchSnapshot{
		Symbol:        symbol,
		CompanyName:   symbol, // chart meta carries no long name; section scrapes do
		CurrentPrice:  md.Meta.Price,
		OverallRating: rating.Overall(&md.Meta, ind),
		GeneratedAt:   time.Now(),
	}

	snap.MarketPosition = marketPositionReport(&md.Meta)
	snap.Financials = quantFinancialsReport(&md.Meta, ind)
	snap.Technical = technicalReport(&md.Meta, ind)
	snap.Options = quantOptionsReport(&md.Meta)
	snap.News = quantNewsReport(symbol)

	a.log.Info().Str("symbol", symbol).Int("rating", snap.OverallRating).Msg("snapshot assembled")
	return snap, nil
}

// Section runs the scrape pipeline for one analytical section: resolve →
// extract (already merged by the resolver) → rate → insight. Extraction
// failures degrade to partial fields; only the technical section's market
// data is a hard requirement.
func (a *Assembler) Section(ctx context.Context, rawSymbol, sectionName string) (*models.SectionAnalysis, error) {
	symbol, err := utils.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	section, err := models.ParseSection(sectionName)
	if err != nil {
		return nil, err
	}

	var (
		meta *models.QuoteMeta
		ind  *models.Indicators
	)
	if section == models.SectionTechnical {
		md, err := a.chart.Fetch(ctx, symbol)
		if err != nil {
			return nil, err
		}
		meta = &md.Meta
		computed := indicators.Compute(&md.Series, &md.Meta)
		ind = &computed
	}

	data := a.resolver.Resolve(ctx, symbol, section)

	var (
		score   int
		signals []models.Signal
	)
	switch section {
	case models.SectionCompany:
		score, signals = rating.Company(data)
	case models.SectionFinancial:
		score, signals = rating.Financial(data)
	case models.SectionTechnical:
		score, signals = rating.Technical(meta, *ind)
	case models.SectionOptions:
		score, signals = rating.Options(data)
	case models.SectionNews:
		score, signals = rating.News(data.Headlines)
	}

	analysis := a.insight.Insight(ctx, symbol, section, data, ind, score)

	return &models.SectionAnalysis{
		Symbol:   symbol,
		Section:  section,
		Rating:   score,
		Analysis: analysis,
		Metrics:  sectionMetrics(section, data, meta, ind),
		Signals:  signals,
	}, nil
}

// Research combines the quantitative snapshot with every section analysis.
// Sections run concurrently; each resolves independently and none can fail
// once past input validation and the market-data fetch.
func (a *Assembler) Research(ctx context.Context, rawSymbol string) (*models.ResearchReport, error) {
	symbol, err := utils.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}

	snap, err := a.Snapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	report := &models.ResearchReport{
		Snapshot: snap,
		Sections: make(map[models.Section]*models.SectionAnalysis, len(models.Sections)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, section := range models.Sections {
		section := section
		g.Go(func() error {
			sa, err := a.Section(gctx, symbol, string(section))
			if err != nil {
				return fmt.Errorf("section %s: %w", section, err)
			}
			mu.Lock()
			report.Sections[section] = sa
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}
