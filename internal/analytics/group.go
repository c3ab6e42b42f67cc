package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"sentimentcli/internal/dataprocessing"
	apperrors "sentimentcli/internal/errors"
)

// GroupSummary is the Summary of one category.
type GroupSummary struct {
	Group string
	Summary
}

// Count is the number of rows carrying a label.
type Count struct {
	Label string
	Count int
}

// CrossTab counts rows per (row label, column label).
type CrossTab struct {
	Rows    []string
	Columns []string
	Counts  [][]int
}

// GroupMeans holds the mean of several columns per category. Means[g][c] is NaN
// when group g has no numeric value in column c.
type GroupMeans struct {
	Groups  []string
	Columns []string
	Means   [][]float64
}

// GroupDescribe summarizes valueCol per distinct value of groupCol. Rows with an
// empty group are excluded, as are groups without any numeric value.
func GroupDescribe(table *dataprocessing.Table, groupCol, valueCol string) ([]GroupSummary, error) {
	gi, vi, err := columnIndices(table, groupCol, valueCol)
	if err != nil {
		return nil, err
	}

	cells := make(map[string][]string)
	for _, row := range table.Rows {
		group := strings.TrimSpace(row[gi])
		if group == "" {
			continue
		}
		cells[group] = append(cells[group], row[vi])
	}

	summaries := make([]GroupSummary, 0, len(cells))
	for _, group := range sortedKeys(cells) {
		s := Describe(cells[group])
		if s.Count == 0 {
			continue
		}
		summaries = append(summaries, GroupSummary{Group: group, Summary: s})
	}
	return summaries, nil
}

// ValueCounts counts rows per non-empty value of col, most frequent first. Ties are
// ordered by label.
func ValueCounts(table *dataprocessing.Table, col string) ([]Count, error) {
	ci, _, err := columnIndices(table, col, col)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, row := range table.Rows {
		label := strings.TrimSpace(row[ci])
		if label == "" {
			continue
		}
		counts[label]++
	}

	result := make([]Count, 0, len(counts))
	for label, n := range counts {
		result = append(result, Count{Label: label, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result, nil
}

// Crosstab counts rows per (rowCol, colCol) pair. Rows with either value empty are
// skipped. Both label sets are sorted.
func Crosstab(table *dataprocessing.Table, rowCol, colCol string) (*CrossTab, error) {
	ri, ci, err := columnIndices(table, rowCol, colCol)
	if err != nil {
		return nil, err
	}

	pairs := make(map[string]map[string]int)
	columnSet := make(map[string]bool)
	for _, row := range table.Rows {
		r := strings.TrimSpace(row[ri])
		c := strings.TrimSpace(row[ci])
		if r == "" || c == "" {
			continue
		}
		if pairs[r] == nil {
			pairs[r] = make(map[string]int)
		}
		pairs[r][c]++
		columnSet[c] = true
	}

	ct := &CrossTab{
		Rows:    sortedKeys(pairs),
		Columns: sortedKeys(columnSet),
	}
	ct.Counts = make([][]int, len(ct.Rows))
	for i, r := range ct.Rows {
		ct.Counts[i] = make([]int, len(ct.Columns))
		for j, c := range ct.Columns {
			ct.Counts[i][j] = pairs[r][c]
		}
	}
	return ct, nil
}

// MeanBy computes the mean of each of cols per non-empty value of groupCol.
func MeanBy(table *dataprocessing.Table, groupCol string, cols ...string) (*GroupMeans, error) {
	gi := table.ColumnIndex(groupCol)
	if gi < 0 {
		return nil, missingColumn(table, groupCol)
	}
	indices := make([]int, len(cols))
	for i, col := range cols {
		if indices[i] = table.ColumnIndex(col); indices[i] < 0 {
			return nil, missingColumn(table, col)
		}
	}

	type acc struct{ sum, n []float64 }
	groups := make(map[string]*acc)
	for _, row := range table.Rows {
		group := strings.TrimSpace(row[gi])
		if group == "" {
			continue
		}
		a := groups[group]
		if a == nil {
			a = &acc{sum: make([]float64, len(cols)), n: make([]float64, len(cols))}
			groups[group] = a
		}
		for c, idx := range indices {
			if v, ok := ParseNumber(row[idx]); ok {
				a.sum[c] += v
				a.n[c]++
			}
		}
	}

	gm := &GroupMeans{Groups: sortedKeys(groups), Columns: cols}
	gm.Means = make([][]float64, len(gm.Groups))
	for g, group := range gm.Groups {
		a := groups[group]
		gm.Means[g] = make([]float64, len(cols))
		for c := range cols {
			if a.n[c] == 0 {
				gm.Means[g][c] = math.NaN()
				continue
			}
			gm.Means[g][c] = a.sum[c] / a.n[c]
		}
	}
	return gm, nil
}

func columnIndices(table *dataprocessing.Table, a, b string) (int, int, error) {
	ai := table.ColumnIndex(a)
	if ai < 0 {
		return 0, 0, missingColumn(table, a)
	}
	bi := table.ColumnIndex(b)
	if bi < 0 {
		return 0, 0, missingColumn(table, b)
	}
	return ai, bi, nil
}

func missingColumn(table *dataprocessing.Table, col string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("column %q in %s", col, table.Name))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
