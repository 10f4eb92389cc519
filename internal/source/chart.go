package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/infra"
	"github.com/quantav/stockscope/pkg/models"
)

const chartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// MarketData is the result of one chart lookup: point-in-time quote fields
// plus roughly a month of daily closes. Immutable once fetched.
type MarketData struct {
	Meta   models.QuoteMeta
	Series models.PriceSeries
}

// ChartClient fetches price history and quote meta from the chart API.
type ChartClient struct {
	baseURL string
	client  *http.Client
	cache   *infra.Cache
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewChartClient creates a chart client with its own cache and limiter.
func NewChartClient(cacheTTL time.Duration, log zerolog.Logger) *ChartClient {
	return &ChartClient{
		baseURL: chartBaseURL,
		client:  newHTTPClient(),
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewRateLimiter(5, time.Second),
		log:     log.With().Str("source", "chart").Logger(),
	}
}

// NewChartClientForURL creates a chart client against a custom endpoint.
// Used by tests to point at a stub server.
func NewChartClientForURL(base string, log zerolog.Logger) *ChartClient {
	c := NewChartClient(time.Minute, log)
	c.baseURL = base
	return c
}

// Fetch retrieves one month of daily closes and the quote meta for a symbol.
// An empty result array is the hard no-data failure.
func (c *ChartClient) Fetch(ctx context.Context, symbol string) (*MarketData, error) {
	cacheKey := "chart:" + symbol
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*MarketData), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/%s?range=1mo&interval=1d", c.baseURL, url.PathEscape(symbol))

	body, err := doGet(ctx, c.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	defer body.Close()

	var resp chartResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("chart %s: decode: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w for %s: %s", ErrNoData, symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}

	md := parseChart(symbol, resp.Chart.Result[0])
	c.cache.Set(cacheKey, md)
	c.log.Debug().Str("symbol", symbol).Int("closes", len(md.Series.Closes)).Msg("chart fetched")
	return md, nil
}

// --- Wire types ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Currency             string  `json:"currency"`
		ExchangeName         string  `json:"exchangeName"`
		RegularMarketPrice   float64 `json:"regularMarketPrice"`
		ChartPreviousClose   float64 `json:"chartPreviousClose"`
		RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
		RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
		FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
		RegularMarketVolume  int64   `json:"regularMarketVolume"`
		RegularMarketTime    int64   `json:"regularMarketTime"`
	} `json:"meta"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// parseChart maps the wire payload onto the request-scoped market data.
// Close gaps stay nil; downstream indicator code filters them.
func parseChart(symbol string, r chartResult) *MarketData {
	md := &MarketData{
		Meta: models.QuoteMeta{
			Symbol:     symbol,
			Price:      r.Meta.RegularMarketPrice,
			PrevClose:  r.Meta.ChartPreviousClose,
			DayHigh:    r.Meta.RegularMarketDayHigh,
			DayLow:     r.Meta.RegularMarketDayLow,
			WeekHigh52: r.Meta.FiftyTwoWeekHigh,
			WeekLow52:  r.Meta.FiftyTwoWeekLow,
			Volume:     r.Meta.RegularMarketVolume,
			Exchange:   r.Meta.ExchangeName,
			Currency:   r.Meta.Currency,
		},
		Series: models.PriceSeries{Symbol: symbol},
	}
	if r.Meta.RegularMarketTime > 0 {
		md.Meta.MarketTime = time.Unix(r.Meta.RegularMarketTime, 0)
	}
	if len(r.Indicators.Quote) > 0 {
		md.Series.Closes = r.Indicators.Quote[0].Close
	}
	return md
}
