// Package reports renders investor portfolios as PDF statements and PNG charts.
package reports

import (
	"fmt"
	"strings"
)

// FormatCents renders an amount in cents as a dollar string with thousands
// separators, e.g. -123456 -> "-$1,234.56"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := fmt.Sprintf("%d", cents/100)
	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return fmt.Sprintf("%s$%s.%02d", sign, grouped.String(), cents%100)
}

// FormatShort renders cents as a compact dollar amount for chart labels,
// e.g. 250000000 -> "$2.5M"
func FormatShort(cents int64) string {
	dollars := float64(cents) / 100
	sign := ""
	if dollars < 0 {
		sign = "-"
		dollars = -dollars
	}

	switch {
	case dollars >= 1_000_000_000:
		return fmt.Sprintf("%s$%sB", sign, trimZero(dollars/1_000_000_000))
	case dollars >= 1_000_000:
		return fmt.Sprintf("%s$%sM", sign, trimZero(dollars/1_000_000))
	case dollars >= 1_000:
		return fmt.Sprintf("%s$%sK", sign, trimZero(dollars/1_000))
	default:
		return fmt.Sprintf("%s$%s", sign, trimZero(dollars))
	}
}

func trimZero(value float64) string {
	formatted := fmt.Sprintf("%.1f", value)
	return strings.TrimSuffix(formatted, ".0")
}
