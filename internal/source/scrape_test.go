package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/pkg/models"
)

const saOverviewHTML = `<html><body>
	<h1>Apple Inc.</h1>
	<div data-test="overview-info"><table>
		<tr><td data-test="sector"></td><td>Technology</td></tr>
		<tr><td data-test="industry"></td><td>Consumer Electronics</td></tr>
		<tr><td data-test="market-cap"></td><td>$3.12T</td></tr>
	</table></div>
	<div data-test="company-description"><p>Designs consumer devices.</p></div>
	<div data-test="news-item"><h3>Profit beats forecasts</h3></div>
	<div data-test="news-item"><h3>New product launch planned</h3></div>
</body></html>`

const saFinancialsHTML = `<html><body><table>
	<tr data-test="revenue"><td>Revenue</td><td>$391.04B</td></tr>
	<tr data-test="net-income"><td>Net Income</td><td>$93.74B</td></tr>
	<tr data-test="eps"><td>EPS (Diluted)</td><td>6.11</td></tr>
</table></body></html>`

func newStubScrapeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/financials/"):
			fmt.Fprint(w, saFinancialsHTML)
		case strings.HasPrefix(r.URL.Path, "/stocks/"):
			fmt.Fprint(w, saOverviewHTML)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestStockAnalysisFetchCompany(t *testing.T) {
	srv := newStubScrapeServer(t)
	defer srv.Close()

	s := NewStockAnalysisForURL(srv.URL, zerolog.Nop())
	data, err := s.Fetch(context.Background(), "AAPL", models.SectionCompany)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if data.Fields["companyName"] != "Apple Inc." {
		t.Errorf("companyName = %q", data.Fields["companyName"])
	}
	if data.Fields["sector"] != "Technology" {
		t.Errorf("sector = %q", data.Fields["sector"])
	}
	if data.Fields["marketCap"] != "3120000000000" {
		t.Errorf("marketCap should be cleaned to a canonical number, got %q", data.Fields["marketCap"])
	}
	if data.Fields["description"] != "Designs consumer devices." {
		t.Errorf("description = %q", data.Fields["description"])
	}
}

func TestStockAnalysisFetchFinancial(t *testing.T) {
	srv := newStubScrapeServer(t)
	defer srv.Close()

	s := NewStockAnalysisForURL(srv.URL, zerolog.Nop())
	data, err := s.Fetch(context.Background(), "AAPL", models.SectionFinancial)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if data.Fields["revenue"] != "391040000000" {
		t.Errorf("revenue = %q", data.Fields["revenue"])
	}
	if data.Fields["eps"] != "6.11" {
		t.Errorf("eps = %q", data.Fields["eps"])
	}
	// Fields the page lacks stay present and empty.
	if v, ok := data.Fields["debtToEquity"]; !ok || v != "" {
		t.Errorf("missing field should be present and empty, got %q ok=%v", v, ok)
	}
}

func TestStockAnalysisFetchHeadlines(t *testing.T) {
	srv := newStubScrapeServer(t)
	defer srv.Close()

	s := NewStockAnalysisForURL(srv.URL, zerolog.Nop())
	data, err := s.Fetch(context.Background(), "AAPL", models.SectionNews)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(data.Headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %d: %v", len(data.Headlines), data.Headlines)
	}
	if data.Headlines[0] != "Profit beats forecasts" {
		t.Errorf("unexpected first headline: %q", data.Headlines[0])
	}
}

func TestStockAnalysisFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewStockAnalysisForURL(srv.URL, zerolog.Nop())
	if _, err := s.Fetch(context.Background(), "AAPL", models.SectionCompany); err == nil {
		t.Fatal("expected an error for HTTP 404")
	}
}

func TestYahooWebFetchFinancial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table>
			<tr><td>Revenue (ttm)</td><td>391.04B</td></tr>
			<tr><td>Trailing P/E</td><td>33.82</td></tr>
		</table></body></html>`)
	}))
	defer srv.Close()

	y := NewYahooWebForURL(srv.URL, zerolog.Nop())
	data, err := y.Fetch(context.Background(), "AAPL", models.SectionFinancial)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if data.Fields["revenue"] != "391040000000" {
		t.Errorf("revenue = %q", data.Fields["revenue"])
	}
	if data.Fields["peRatio"] != "33.82" {
		t.Errorf("peRatio = %q", data.Fields["peRatio"])
	}
}

func TestYahooWebDoesNotServeNews(t *testing.T) {
	y := NewYahooWebForURL("http://unused.invalid", zerolog.Nop())
	if supports(y, models.SectionNews) {
		t.Error("the quote-page source must not claim the news section")
	}
	if _, err := y.Fetch(context.Background(), "AAPL", models.SectionNews); err == nil {
		t.Error("fetching an unserved section should fail")
	}
}

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
	<title>Ticker Headlines</title>
	<item><title>Profit beats forecasts</title></item>
	<item><title>  </title></item>
	<item><title>Analyst upgrade lifts shares</title></item>
</channel></rss>`

func TestNewsFeedFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") != "AAPL" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssPayload)
	}))
	defer srv.Close()

	n := NewNewsFeedForURL(srv.URL+"/rss?s=%s", zerolog.Nop())
	data, err := n.Fetch(context.Background(), "AAPL", models.SectionNews)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(data.Headlines) != 2 {
		t.Fatalf("expected 2 headlines (blank title skipped), got %d: %v", len(data.Headlines), data.Headlines)
	}
	if data.Headlines[1] != "Analyst upgrade lifts shares" {
		t.Errorf("unexpected headline: %q", data.Headlines[1])
	}
}

func TestNewsFeedServesOnlyNews(t *testing.T) {
	n := NewNewsFeedForURL("http://unused.invalid/rss?s=%s", zerolog.Nop())
	if _, err := n.Fetch(context.Background(), "AAPL", models.SectionCompany); err == nil {
		t.Error("the feed source serves only the news section")
	}
}
