// Package extract pulls a fixed vocabulary of fields out of scraped HTML
// documents. Each field carries an ordered chain of extraction strategies;
// the first one yielding a non-empty value wins. Fields are extracted
// independently, so a document that satisfies only some of a section's
// fields still contributes those.
package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy locates one candidate value in a document. With Attr empty the
// node text is used, otherwise the named attribute.
type Strategy struct {
	Selector string
	Attr     string
}

// FieldSpec names one extractable field and its strategy chain. Numeric
// fields are cleaned of currency symbols and thousands separators and dropped
// entirely when they still fail to parse.
type FieldSpec struct {
	Name       string
	Numeric    bool
	Strategies []Strategy
}

// Fields runs every spec against the document. The result carries a key for
// every spec, with "" marking fields no strategy could satisfy.
func Fields(doc *goquery.Document, specs []FieldSpec) map[string]string {
	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		out[spec.Name] = field(doc, spec)
	}
	return out
}

func field(doc *goquery.Document, spec FieldSpec) string {
	for _, st := range spec.Strategies {
		sel := doc.Find(st.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		var raw string
		if st.Attr != "" {
			raw, _ = sel.Attr(st.Attr)
		} else {
			raw = sel.Text()
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if spec.Numeric {
			if cleaned := CleanNumeric(raw); cleaned != "" {
				return cleaned
			}
			continue
		}
		return raw
	}
	return ""
}

// Headlines extracts up to limit headline texts, trying selectors in order
// and keeping the first selector that yields anything.
func Headlines(doc *goquery.Document, selectors []string, limit int) []string {
	for _, selector := range selectors {
		var out []string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if text != "" {
				out = append(out, text)
			}
			return limit <= 0 || len(out) < limit
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// currency symbols stripped before numeric parsing.
var currencyRunes = "$€£¥₹"

// suffix multipliers for compact market-cap style tokens.
var suffixMultipliers = map[byte]float64{
	'K': 1e3, 'M': 1e6, 'B': 1e9, 'T': 1e12,
}

// CleanNumeric strips currency symbols, thousands separators, percent signs,
// and compact K/M/B/T suffixes, then parses. It returns the canonical decimal
// string, or "" when the token is not numeric, never a coerced zero.
func CleanNumeric(raw string) string {
	s := strings.TrimSpace(raw)
	for _, r := range currencyRunes {
		s = strings.ReplaceAll(s, string(r), "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	multiplier := 1.0
	last := strings.ToUpper(s)[len(s)-1]
	if m, ok := suffixMultipliers[last]; ok {
		multiplier = m
		s = strings.TrimSpace(s[:len(s)-1])
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(v*multiplier, 'f', -1, 64)
}
