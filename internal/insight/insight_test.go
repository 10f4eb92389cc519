package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/llm"
	"github.com/quantav/stockscope/pkg/models"
	"github.com/quantav/stockscope/pkg/utils"
)

// stubProvider is an in-memory generation backend for tests.
type stubProvider struct {
	text  string
	err   error
	calls int
	last  string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, _, prompt string, _ llm.GenerateOptions) (string, error) {
	p.calls++
	p.last = prompt
	return p.text, p.err
}

func ptr(v float64) *float64 { return &v }

func TestInsightUsesProvider(t *testing.T) {
	p := &stubProvider{text: "Generated analysis."}
	g := NewGenerator(p, "test-model", 400, zerolog.Nop())

	got := g.Insight(context.Background(), "AAPL", models.SectionCompany, models.SectionData{}, nil, 7)
	if got != "Generated analysis." {
		t.Errorf("expected provider text, got %q", got)
	}
	if p.calls != 1 {
		t.Errorf("expected one provider call, got %d", p.calls)
	}
}

func TestInsightFallsBackOnProviderError(t *testing.T) {
	p := &stubProvider{err: errors.New("upstream 500")}
	g := NewGenerator(p, "test-model", 400, zerolog.Nop())

	got := g.Insight(context.Background(), "AAPL", models.SectionCompany, models.SectionData{
		Fields: models.SectionFields{"sector": "Technology"},
	}, nil, 7)
	if got == "" {
		t.Fatal("insight must never be empty")
	}
	if !strings.Contains(got, "Technology") {
		t.Errorf("fallback should render extracted fields, got %q", got)
	}
}

func TestInsightFallsBackOnEmptyCompletion(t *testing.T) {
	p := &stubProvider{text: ""}
	g := NewGenerator(p, "test-model", 400, zerolog.Nop())

	got := g.Insight(context.Background(), "AAPL", models.SectionNews, models.SectionData{}, nil, 5)
	if got == "" {
		t.Fatal("an empty completion must fall through to the template")
	}
}

func TestInsightNilProvider(t *testing.T) {
	g := NewGenerator(nil, "", 0, zerolog.Nop())
	got := g.Insight(context.Background(), "AAPL", models.SectionTechnical, models.SectionData{}, nil, 6)
	if got == "" {
		t.Fatal("template path must produce text without any backend")
	}
}

func TestPromptRendersMissingFieldsAsSentinel(t *testing.T) {
	p := &stubProvider{text: "ok"}
	g := NewGenerator(p, "test-model", 400, zerolog.Nop())

	g.Insight(context.Background(), "AAPL", models.SectionFinancial, models.SectionData{
		Fields: models.SectionFields{"revenue": "391040000000", "netIncome": ""},
	}, nil, 5)

	if !strings.Contains(p.last, "revenue: 391040000000") {
		t.Errorf("prompt missing extracted field:\n%s", p.last)
	}
	if !strings.Contains(p.last, "netIncome: "+utils.NotAvailable) {
		t.Errorf("empty fields must be rendered with the sentinel:\n%s", p.last)
	}
}

func TestPromptFieldOrderDeterministic(t *testing.T) {
	p := &stubProvider{text: "ok"}
	g := NewGenerator(p, "test-model", 400, zerolog.Nop())
	data := models.SectionData{Fields: models.SectionFields{
		"revenue": "1", "eps": "2", "peRatio": "3",
	}}

	g.Insight(context.Background(), "AAPL", models.SectionFinancial, data, nil, 5)
	first := p.last
	g2 := NewGenerator(p, "test-model", 400, zerolog.Nop())
	g2.Insight(context.Background(), "AAPL", models.SectionFinancial, data, nil, 5)

	if p.last != first {
		t.Error("prompt must not depend on map iteration order")
	}
	if strings.Index(first, "eps:") > strings.Index(first, "revenue:") {
		t.Errorf("fields should be alphabetical:\n%s", first)
	}
}

func TestFallbackEverySectionNonEmpty(t *testing.T) {
	for _, section := range models.Sections {
		got := Fallback("AAPL", section, models.SectionData{}, nil, 5)
		if strings.TrimSpace(got) == "" {
			t.Errorf("empty fallback for section %s", section)
		}
		if !strings.Contains(got, "AAPL") {
			t.Errorf("fallback for %s should name the symbol: %q", section, got)
		}
	}
}

func TestFallbackRendersSentinelForMissingData(t *testing.T) {
	got := Fallback("AAPL", models.SectionFinancial, models.SectionData{
		Fields: models.SectionFields{"revenue": "", "netIncome": ""},
	}, nil, 5)
	if !strings.Contains(got, utils.NotAvailable) {
		t.Errorf("missing values must render as the sentinel, got %q", got)
	}
	if strings.Contains(got, "revenue of 0") {
		t.Errorf("missing values must never render as zero, got %q", got)
	}
}

func TestFallbackTechnicalWithIndicators(t *testing.T) {
	ind := &models.Indicators{MA10: ptr(114.5), MA20: ptr(109.5), VolatilityPct: ptr(23.4)}
	got := Fallback("AAPL", models.SectionTechnical, models.SectionData{}, ind, 8)
	for _, want := range []string{"114.50", "109.50", "+23.40%", "8 out of 10"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in technical fallback: %q", want, got)
		}
	}
}

func TestFallbackNews(t *testing.T) {
	got := Fallback("AAPL", models.SectionNews, models.SectionData{
		Headlines: []string{"Profit beats forecasts", "New launch"},
	}, nil, 6)
	if !strings.Contains(got, "2 headlines") {
		t.Errorf("expected headline count, got %q", got)
	}
	if !strings.Contains(got, "Profit beats forecasts") {
		t.Errorf("expected the latest headline, got %q", got)
	}

	empty := Fallback("AAPL", models.SectionNews, models.SectionData{}, nil, 5)
	if !strings.Contains(empty, "No recent headlines") {
		t.Errorf("expected the no-headlines wording, got %q", empty)
	}
}
