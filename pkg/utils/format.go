// Package utils provides symbol normalization and display formatting shared
// by summaries, insight templates, and the CLI output.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NotAvailable is the single sentinel rendered wherever a value could not be
// obtained. Every renderer uses this token so "missing" never shows up as 0.
const NotAvailable = "Not available"

// FormatPrice renders a price with two decimals.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPricePtr renders a possibly-missing price.
func FormatPricePtr(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatPrice(*v)
}

// FormatPct renders a percentage with two decimals and a sign for positives.
func FormatPct(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatPctPtr renders a possibly-missing percentage.
func FormatPctPtr(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatPct(*v)
}

// FormatVolume renders share volume in compact form (12.5M, 980.0K).
func FormatVolume(v int64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(v)/1e9)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1e6)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v)/1e3)
	default:
		return strconv.FormatInt(v, 10)
	}
}

// OrNA returns the value, or the NotAvailable sentinel when it is empty.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
