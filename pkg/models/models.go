// Package models defines the core data structures used throughout StockScope.
package models

import (
	"fmt"
	"time"
)

// PriceSeries holds one symbol's daily closing prices over the lookback
// window, most recent last. Closes may contain gaps (nil entries) exactly as
// returned by the chart API; consumers filter them before computing anything.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Closes []*float64 `json:"closes"`
}

// Valid returns the non-nil closes in order.
func (s *PriceSeries) Valid() []float64 {
	out := make([]float64, 0, len(s.Closes))
	for _, c := range s.Closes {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// QuoteMeta holds the point-in-time scalar fields for a symbol. Sourced once
// per request and never mutated.
type QuoteMeta struct {
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	PrevClose  float64   `json:"prev_close"`
	DayHigh    float64   `json:"day_high"`
	DayLow     float64   `json:"day_low"`
	WeekHigh52 float64   `json:"week_high_52"`
	WeekLow52  float64   `json:"week_low_52"`
	Volume     int64     `json:"volume"`
	Exchange   string    `json:"exchange"`
	Currency   string    `json:"currency"`
	MarketTime time.Time `json:"market_time"`
}

// Indicators holds the derived technical values for one request. A nil field
// means the indicator could not be computed from the available history; it is
// never coerced to zero.
type Indicators struct {
	MA10          *float64 `json:"ma10,omitempty"`
	MA20          *float64 `json:"ma20,omitempty"`
	ChangeAbs     *float64 `json:"change_abs,omitempty"`
	ChangePct     *float64 `json:"change_pct,omitempty"`
	VolatilityPct *float64 `json:"volatility_pct,omitempty"`
}

// Section identifies one analytical dimension of a research snapshot.
type Section string

const (
	SectionCompany   Section = "companyAnalysis"
	SectionFinancial Section = "financialHealth"
	SectionTechnical Section = "technicalAnalysis"
	SectionOptions   Section = "optionsData"
	SectionNews      Section = "recentDevelopments"
)

// Sections lists every supported section in display order.
var Sections = []Section{
	SectionCompany,
	SectionFinancial,
	SectionTechnical,
	SectionOptions,
	SectionNews,
}

// ErrUnknownSection is returned when a request names a section outside the
// supported set. It is an input error, rejected before any fetch.
type ErrUnknownSection struct {
	Name string
}

func (e *ErrUnknownSection) Error() string {
	return fmt.Sprintf("unknown section %q", e.Name)
}

// ParseSection validates a requested section name against the closed set.
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", &ErrUnknownSection{Name: name}
}

// SectionFields maps extracted field names to their values for one section.
// Empty string values are explicit "nothing extracted" markers; keys are never
// silently omitted for fields the section defines.
type SectionFields map[string]string

// Has reports whether the field was extracted with a non-empty value.
func (f SectionFields) Has(name string) bool { return f[name] != "" }

// Present counts the fields carrying non-empty values.
func (f SectionFields) Present() int {
	n := 0
	for _, v := range f {
		if v != "" {
			n++
		}
	}
	return n
}

// SectionData is the merged output of the source fallback resolver for one
// section: named fields plus, for news-type sections, scraped headlines.
type SectionData struct {
	Fields    SectionFields `json:"fields"`
	Headlines []string      `json:"headlines,omitempty"`
}

// SignalType tags an informational signal attached to a section.
type SignalType string

const (
	SignalPositive SignalType = "positive"
	SignalWarning  SignalType = "warning"
	SignalInfo     SignalType = "info"
)

// Signal is a tagged short message attached to a section analysis.
type Signal struct {
	Type    SignalType `json:"type"`
	Message string     `json:"message"`
}

// Metric is one labelled value in a section analysis.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SubReport is one analytical dimension of the quantitative snapshot.
// Rating is always within [1,10].
type SubReport struct {
	Rating  int      `json:"rating"`
	Summary string   `json:"summary"`
	Details []string `json:"details"`
}

// ResearchSnapshot is the assembled quantitative output for one symbol,
// created fresh per request. OverallRating is always within [1,5].
type ResearchSnapshot struct {
	Symbol         string    `json:"symbol"`
	CompanyName    string    `json:"company_name"`
	CurrentPrice   float64   `json:"current_price"`
	OverallRating  int       `json:"overall_rating"`
	MarketPosition SubReport `json:"market_position"`
	Financials     SubReport `json:"financials"`
	Technical      SubReport `json:"technical"`
	Options        SubReport `json:"options"`
	News           SubReport `json:"news"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// SectionAnalysis is the output of a single-section scrape request.
// Rating is always within [0,10].
type SectionAnalysis struct {
	Symbol   string   `json:"symbol"`
	Section  Section  `json:"section"`
	Rating   int      `json:"rating"`
	Analysis string   `json:"analysis"`
	Metrics  []Metric `json:"metrics"`
	Signals  []Signal `json:"signals"`
}

// ResearchReport bundles the quantitative snapshot with every section
// analysis, for the combined research entry point.
type ResearchReport struct {
	Snapshot *ResearchSnapshot          `json:"snapshot"`
	Sections map[Section]*SectionAnalysis `json:"sections"`
}
