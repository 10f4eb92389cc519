package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/extract"
	"github.com/quantav/stockscope/internal/infra"
	"github.com/quantav/stockscope/pkg/models"
)

const stockAnalysisBaseURL = "https://stockanalysis.com"

// StockAnalysis scrapes stockanalysis.com company pages. It is the primary
// source for every scraped section.
type StockAnalysis struct {
	baseURL string
	client  *http.Client
	cache   *infra.Cache
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewStockAnalysis creates the primary scrape source.
func NewStockAnalysis(cacheTTL time.Duration, log zerolog.Logger) *StockAnalysis {
	return &StockAnalysis{
		baseURL: stockAnalysisBaseURL,
		client:  newHTTPClient(),
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewRateLimiter(2, time.Second),
		log:     log.With().Str("source", "stockanalysis").Logger(),
	}
}

// NewStockAnalysisForURL creates the source against a custom endpoint, for
// tests with a stub server.
func NewStockAnalysisForURL(base string, log zerolog.Logger) *StockAnalysis {
	s := NewStockAnalysis(time.Minute, log)
	s.baseURL = base
	return s
}

func (s *StockAnalysis) Name() string { return "stockanalysis.com" }

func (s *StockAnalysis) Sections() []models.Section { return models.Sections }

// sectionPaths maps a section to the sub-page carrying its fields.
var saSectionPaths = map[models.Section]string{
	models.SectionCompany:   "",
	models.SectionFinancial: "/financials",
	models.SectionTechnical: "/statistics",
	models.SectionOptions:   "/options",
	models.SectionNews:      "",
}

// saFieldSpecs is the per-section strategy table for stockanalysis.com pages.
var saFieldSpecs = map[models.Section][]extract.FieldSpec{
	models.SectionCompany: {
		{Name: "companyName", Strategies: []extract.Strategy{
			{Selector: "div[data-test='company-name']"},
			{Selector: "h1"},
		}},
		{Name: "sector", Strategies: []extract.Strategy{
			{Selector: "td[data-test='sector'] + td"},
			{Selector: "a[href*='/stocks/sector/']"},
		}},
		{Name: "industry", Strategies: []extract.Strategy{
			{Selector: "td[data-test='industry'] + td"},
			{Selector: "a[href*='/stocks/industry/']"},
		}},
		{Name: "marketCap", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td[data-test='market-cap'] + td"},
			{Selector: "div[data-test='overview-info'] td:contains('Market Cap') + td"},
		}},
		{Name: "description", Strategies: []extract.Strategy{
			{Selector: "div[data-test='company-description'] p"},
			{Selector: "div.about p"},
		}},
	},
	models.SectionFinancial: {
		{Name: "revenue", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "tr[data-test='revenue'] td:nth-child(2)"},
			{Selector: "table td:contains('Revenue') + td"},
		}},
		{Name: "netIncome", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "tr[data-test='net-income'] td:nth-child(2)"},
			{Selector: "table td:contains('Net Income') + td"},
		}},
		{Name: "profitMargin", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "tr[data-test='profit-margin'] td:nth-child(2)"},
			{Selector: "table td:contains('Profit Margin') + td"},
		}},
		{Name: "eps", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "tr[data-test='eps'] td:nth-child(2)"},
			{Selector: "table td:contains('EPS (Diluted)') + td"},
		}},
		{Name: "peRatio", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "tr[data-test='pe-ratio'] td:nth-child(2)"},
			{Selector: "table td:contains('PE Ratio') + td"},
		}},
		{Name: "debtToEquity", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "tr[data-test='debt-equity'] td:nth-child(2)"},
			{Selector: "table td:contains('Debt / Equity') + td"},
		}},
	},
	models.SectionTechnical: {
		{Name: "beta", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Beta') + td"},
		}},
		{Name: "avgVolume", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Average Volume') + td"},
		}},
		{Name: "fiftyTwoWeekChange", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('52-Week Price Change') + td"},
		}},
	},
	models.SectionOptions: {
		{Name: "impliedVolatility", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Implied Volatility') + td"},
			{Selector: "div[data-test='iv'] span.value"},
		}},
		{Name: "putCallRatio", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Put/Call Ratio') + td"},
		}},
		{Name: "openInterest", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Open Interest') + td"},
		}},
		{Name: "optionVolume", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Volume') + td"},
		}},
	},
}

// saHeadlineSelectors locate news headlines on the company overview page.
var saHeadlineSelectors = []string{
	"div[data-test='news-item'] h3",
	"div.news-article h3 a",
	"article h3",
}

// Fetch scrapes one section page and extracts its field vocabulary.
func (s *StockAnalysis) Fetch(ctx context.Context, symbol string, section models.Section) (models.SectionData, error) {
	doc, err := s.fetchPage(ctx, symbol, saSectionPaths[section])
	if err != nil {
		return models.SectionData{}, err
	}

	data := models.SectionData{Fields: models.SectionFields{}}
	if specs := saFieldSpecs[section]; specs != nil {
		data.Fields = extract.Fields(doc, specs)
	}
	if section == models.SectionNews {
		data.Headlines = extract.Headlines(doc, saHeadlineSelectors, 10)
	}
	return data, nil
}

func (s *StockAnalysis) fetchPage(ctx context.Context, symbol, path string) (*goquery.Document, error) {
	cacheKey := "sa:" + symbol + ":" + path
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*goquery.Document), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/stocks/%s%s/", s.baseURL, url.PathEscape(symbol), path)
	body, err := doGet(ctx, s.client, u, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("stockanalysis %s: %w", symbol, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse stockanalysis HTML: %w", err)
	}

	s.cache.Set(cacheKey, doc)
	return doc, nil
}
