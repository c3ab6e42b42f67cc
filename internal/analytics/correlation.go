package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"sentimentcli/internal/dataprocessing"
)

// Matrix is a square matrix labelled by column name.
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// NumericColumns returns the columns whose non-null cells all parse as numbers,
// keeping only columns with at least one such cell. Blank cells and null markers
// count as missing. Order follows the table.
func NumericColumns(table *dataprocessing.Table) []string {
	var numeric []string
	for c, col := range table.Columns {
		seen := false
		ok := true
		for _, row := range table.Rows {
			if IsNull(row[c]) {
				continue
			}
			if _, isNum := ParseNumber(row[c]); !isNum {
				ok = false
				break
			}
			seen = true
		}
		if ok && seen {
			numeric = append(numeric, col)
		}
	}
	return numeric
}

// Correlation computes the Pearson correlation between every pair of numeric
// columns, using only rows where both values are present. A pair with fewer than
// two such rows, or with a constant side, is NaN.
func Correlation(table *dataprocessing.Table) *Matrix {
	columns := NumericColumns(table)

	data := make([][]float64, len(columns))
	present := make([][]bool, len(columns))
	for i, col := range columns {
		idx := table.ColumnIndex(col)
		data[i] = make([]float64, len(table.Rows))
		present[i] = make([]bool, len(table.Rows))
		for r, row := range table.Rows {
			data[i][r], present[i][r] = ParseNumber(row[idx])
		}
	}

	m := &Matrix{Columns: columns, Values: make([][]float64, len(columns))}
	for i := range columns {
		m.Values[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			r := pairwisePearson(data[i], data[j], present[i], present[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairwisePearson(x, y []float64, px, py []bool) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if px[i] && py[i] {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
