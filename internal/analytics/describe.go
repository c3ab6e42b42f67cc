package analytics

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the descriptive statistics of one numeric series. Fields other than
// Count and Total are NaN when Count is zero; Std is NaN when Count is below two.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
	Total decimal.Decimal
}

// groupedNumber matches numbers whose commas separate groups of three digits.
var groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// nullMarkers are cell texts read as a missing value rather than as text.
var nullMarkers = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true, "n/a": true,
	"nan": true, "null": true,
}

// IsNull reports whether cell holds no value: blank or a null marker such as NaN.
func IsNull(cell string) bool {
	clean := strings.TrimSpace(cell)
	return clean == "" || nullMarkers[clean]
}

// numericText trims cell and drops thousands separators. Any other comma is kept so
// the cell fails to parse.
func numericText(cell string) string {
	clean := strings.TrimSpace(cell)
	if groupedNumber.MatchString(clean) {
		clean = strings.ReplaceAll(clean, ",", "")
	}
	return clean
}

// ParseNumber reads a numeric cell. Thousands separators and surrounding spaces are
// ignored; null, non-finite and non-numeric cells report false.
func ParseNumber(cell string) (float64, bool) {
	if IsNull(cell) {
		return 0, false
	}
	clean := numericText(cell)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Describe summarizes the numeric cells among cells; other cells are skipped.
func Describe(cells []string) Summary {
	values := make([]float64, 0, len(cells))
	total := decimal.Zero

	for _, cell := range cells {
		v, ok := ParseNumber(cell)
		if !ok {
			continue
		}
		values = append(values, v)

		d, err := decimal.NewFromString(numericText(cell))
		if err != nil {
			d = decimal.NewFromFloat(v)
		}
		total = total.Add(d)
	}

	return summarize(values, total)
}

func summarize(values []float64, total decimal.Decimal) Summary {
	nan := math.NaN()
	s := Summary{
		Count: len(values),
		Mean:  nan,
		Std:   nan,
		Min:   nan,
		P25:   nan,
		P50:   nan,
		P75:   nan,
		Max:   nan,
		Total: total,
	}
	if len(values) == 0 {
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.P25 = percentile(sorted, 0.25)
	s.P50 = percentile(sorted, 0.50)
	s.P75 = percentile(sorted, 0.75)
	return s
}

// percentile interpolates linearly between the closest ranks of an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	index := p * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
