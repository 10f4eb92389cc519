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

const yahooWebBaseURL = "https://finance.yahoo.com"

// YahooWeb scrapes finance.yahoo.com quote pages. It is the secondary source,
// consulted when the primary yields nothing usable for a field.
type YahooWeb struct {
	baseURL string
	client  *http.Client
	cache   *infra.Cache
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewYahooWeb creates the secondary scrape source.
func NewYahooWeb(cacheTTL time.Duration, log zerolog.Logger) *YahooWeb {
	return &YahooWeb{
		baseURL: yahooWebBaseURL,
		client:  newHTTPClient(),
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewRateLimiter(2, time.Second),
		log:     log.With().Str("source", "yahooweb").Logger(),
	}
}

// NewYahooWebForURL creates the source against a custom endpoint, for tests.
func NewYahooWebForURL(base string, log zerolog.Logger) *YahooWeb {
	y := NewYahooWeb(time.Minute, log)
	y.baseURL = base
	return y
}

func (y *YahooWeb) Name() string { return "finance.yahoo.com" }

func (y *YahooWeb) Sections() []models.Section {
	// News headlines come from the RSS source instead; everything else has a
	// quote-page rendition here.
	return []models.Section{
		models.SectionCompany,
		models.SectionFinancial,
		models.SectionTechnical,
		models.SectionOptions,
	}
}

var ywSectionPaths = map[models.Section]string{
	models.SectionCompany:   "/profile",
	models.SectionFinancial: "/key-statistics",
	models.SectionTechnical: "/key-statistics",
	models.SectionOptions:   "/options",
}

var ywFieldSpecs = map[models.Section][]extract.FieldSpec{
	models.SectionCompany: {
		{Name: "companyName", Strategies: []extract.Strategy{
			{Selector: "h1[data-test='quote-header']"},
			{Selector: "section h1"},
		}},
		{Name: "sector", Strategies: []extract.Strategy{
			{Selector: "span:contains('Sector') + span"},
			{Selector: "dd[data-test='sector']"},
		}},
		{Name: "industry", Strategies: []extract.Strategy{
			{Selector: "span:contains('Industry') + span"},
			{Selector: "dd[data-test='industry']"},
		}},
		{Name: "marketCap", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td[data-test='MARKET_CAP-value']"},
			{Selector: "fin-streamer[data-field='marketCap']"},
		}},
		{Name: "description", Strategies: []extract.Strategy{
			{Selector: "section[data-test='company-overview'] p"},
		}},
	},
	models.SectionFinancial: {
		{Name: "revenue", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Revenue (ttm)') + td"},
		}},
		{Name: "netIncome", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Net Income Avi to Common') + td"},
		}},
		{Name: "profitMargin", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Profit Margin') + td"},
		}},
		{Name: "eps", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Diluted EPS (ttm)') + td"},
		}},
		{Name: "peRatio", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Trailing P/E') + td"},
		}},
		{Name: "debtToEquity", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Total Debt/Equity') + td"},
		}},
	},
	models.SectionTechnical: {
		{Name: "beta", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Beta (5Y Monthly)') + td"},
		}},
		{Name: "avgVolume", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Avg Vol (3 month)') + td"},
		}},
		{Name: "fiftyTwoWeekChange", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('52-Week Change') + td"},
		}},
	},
	models.SectionOptions: {
		{Name: "impliedVolatility", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Implied Volatility') + td"},
			{Selector: "table.calls td.data-col5"},
		}},
		{Name: "putCallRatio", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Put/Call') + td"},
		}},
		{Name: "openInterest", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "td:contains('Open Interest') + td"},
			{Selector: "table.calls td.data-col9"},
		}},
		{Name: "optionVolume", Numeric: true, Strategies: []extract.Strategy{
			{Selector: "table.calls td.data-col8"},
		}},
	},
}

// Fetch scrapes one quote sub-page and extracts its field vocabulary.
func (y *YahooWeb) Fetch(ctx context.Context, symbol string, section models.Section) (models.SectionData, error) {
	path, ok := ywSectionPaths[section]
	if !ok {
		return models.SectionData{}, fmt.Errorf("yahooweb: section %s not served", section)
	}

	doc, err := y.fetchPage(ctx, symbol, path)
	if err != nil {
		return models.SectionData{}, err
	}

	return models.SectionData{Fields: extract.Fields(doc, ywFieldSpecs[section])}, nil
}

func (y *YahooWeb) fetchPage(ctx context.Context, symbol, path string) (*goquery.Document, error) {
	cacheKey := "yw:" + symbol + ":" + path
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*goquery.Document), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/quote/%s%s", y.baseURL, url.PathEscape(symbol), path)
	body, err := doGet(ctx, y.client, u, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("yahooweb %s: %w", symbol, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse yahoo HTML: %w", err)
	}

	y.cache.Set(cacheKey, doc)
	return doc, nil
}
