package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/config"
	"github.com/quantav/stockscope/internal/insight"
	"github.com/quantav/stockscope/internal/snapshot"
	"github.com/quantav/stockscope/internal/source"
)

const chartPayload = `{
	"chart": {
		"result": [{
			"meta": {
				"currency": "USD",
				"exchangeName": "NMS",
				"regularMarketPrice": 120.0,
				"chartPreviousClose": 119.0,
				"regularMarketDayHigh": 121.0,
				"regularMarketDayLow": 118.5,
				"fiftyTwoWeekHigh": 130.0,
				"fiftyTwoWeekLow": 80.0,
				"regularMarketVolume": 15000000,
				"regularMarketTime": 1735500000
			},
			"indicators": {"quote": [{"close": [100,101,102,103,104,105,106,107,108,109,110,111,112,113,114,115,116,117,118,119]}]}
		}],
		"error": null
	}
}`

const noDataPayload = `{"chart": {"result": [], "error": null}}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "NODATA") {
			fmt.Fprint(w, noDataPayload)
			return
		}
		fmt.Fprint(w, chartPayload)
	}))
	t.Cleanup(upstream.Close)

	log := zerolog.Nop()
	assembler := snapshot.NewAssembler(
		source.NewChartClientForURL(upstream.URL, log),
		source.NewResolver(log),
		insight.NewGenerator(nil, "", 0, log),
		log,
	)

	cfg := &config.Config{}
	cfg.API.CORSOrigins = []string{"*"}
	return NewServer(cfg, assembler, log)
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "/api/v1/snapshot/aapl")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Symbol        string  `json:"symbol"`
		CurrentPrice  float64 `json:"current_price"`
		OverallRating int     `json:"overall_rating"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Symbol != "AAPL" {
		t.Errorf("symbol = %q", body.Symbol)
	}
	if body.OverallRating < 1 || body.OverallRating > 5 {
		t.Errorf("overall rating %d out of [1,5]", body.OverallRating)
	}
}

func TestSnapshotEndpointInvalidSymbol(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "/api/v1/snapshot/bad%20symbol!")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSnapshotEndpointNoData(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "/api/v1/snapshot/NODATA")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body should carry a message")
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "/api/v1/analysis/AAPL/companyAnalysis")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Section  string `json:"section"`
		Rating   int    `json:"rating"`
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Section != "companyAnalysis" {
		t.Errorf("section = %q", body.Section)
	}
	if body.Analysis == "" {
		t.Error("analysis text missing")
	}
}

func TestAnalysisEndpointUnknownSection(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "/api/v1/analysis/AAPL/astrology")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResearchEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "/api/v1/research/AAPL")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Snapshot json.RawMessage            `json:"snapshot"`
		Sections map[string]json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Snapshot == nil {
		t.Error("missing snapshot")
	}
	if len(body.Sections) != 5 {
		t.Errorf("expected 5 sections, got %d", len(body.Sections))
	}
}
