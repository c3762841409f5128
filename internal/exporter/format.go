package exporter

import (
	"math"
	"strconv"

	"returnscli/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatNull renders a missing value as an empty cell
func formatNull(n domain.NullFloat) string {
	return n.Format(2)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// round2 rounds to two decimals for numeric spreadsheet cells.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
