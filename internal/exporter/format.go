package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatFloat renders a statistic with at most six decimals and no trailing zeros.
// Missing values render as NaN.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// formatInt formats a count
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// cellValue converts a statistic for a workbook cell; NaN becomes an empty cell.
func cellValue(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
