// Package source acquires raw data for the research engine: the market-data
// chart payload, scraped section pages from a primary and a secondary
// provider, and RSS headlines. A fallback resolver merges per-section fields
// across sources, degrading silently to partial results; only missing chart
// data is a hard failure.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quantav/stockscope/pkg/models"
)

// ErrNoData is returned when the market-data lookup yields no chart result at
// all for a symbol. This is the one hard failure in data acquisition.
var ErrNoData = errors.New("no chart data found")

// IsNoData reports whether err is the hard no-data failure.
func IsNoData(err error) bool { return errors.Is(err, ErrNoData) }

// ErrHTTP wraps a non-2xx upstream response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// DefaultUserAgent is the user agent string used for upstream requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// attemptTimeout bounds every individual fetch attempt.
const attemptTimeout = 10 * time.Second

// newHTTPClient builds the per-source HTTP client.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: attemptTimeout}
}

// doGet performs a GET with default headers, returning the response body.
// The caller closes the returned ReadCloser.
func doGet(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}

// SectionSource is one provider of scraped section data. Fetch returns what
// it could extract; an error or an empty result both push the resolver to the
// next source.
type SectionSource interface {
	// Name identifies the source in logs.
	Name() string

	// Sections lists the sections this source can serve.
	Sections() []models.Section

	// Fetch scrapes one section for a symbol.
	Fetch(ctx context.Context, symbol string, section models.Section) (models.SectionData, error)
}

func supports(s SectionSource, section models.Section) bool {
	for _, sec := range s.Sections() {
		if sec == section {
			return true
		}
	}
	return false
}
