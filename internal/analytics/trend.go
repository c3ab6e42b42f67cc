package analytics

import (
	"slices"
	"strings"
	"time"

	"sentimentcli/internal/dataprocessing"
)

// Point is the mean value of one category on one sentiment date.
type Point struct {
	Date time.Time
	Mean float64
}

// Series is one category's points in date order.
type Series struct {
	Group  string
	Points []Point
}

// Trend averages valueCol per (matched sentiment date, groupCol) and returns one
// series per category, sorted by category. Unmatched rows and rows without a
// numeric value are skipped. Points are always keyed by the sentiment observation
// time, even when both inputs share a key column name and the merged table keeps
// only the trade time in that column.
func Trend(merged *dataprocessing.MergedTable, groupCol, valueCol string) ([]Series, error) {
	gi, vi, err := columnIndices(&merged.Table, groupCol, valueCol)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sum float64
		n   int
	}
	groups := make(map[string]map[time.Time]*bucket)

	for i, row := range merged.Rows {
		date, ok := merged.SentimentTime(i)
		if !ok {
			continue
		}
		group := strings.TrimSpace(row[gi])
		if group == "" {
			continue
		}
		v, ok := ParseNumber(row[vi])
		if !ok {
			continue
		}

		if groups[group] == nil {
			groups[group] = make(map[time.Time]*bucket)
		}
		// Map keys must not depend on the Location pointer
		key := date.UTC()
		b := groups[group][key]
		if b == nil {
			b = &bucket{}
			groups[group][key] = b
		}
		b.sum += v
		b.n++
	}

	series := make([]Series, 0, len(groups))
	for _, group := range sortedKeys(groups) {
		s := Series{Group: group}
		for date, b := range groups[group] {
			s.Points = append(s.Points, Point{Date: date, Mean: b.sum / float64(b.n)})
		}
		slices.SortFunc(s.Points, func(a, b Point) int { return a.Date.Compare(b.Date) })
		series = append(series, s)
	}
	return series, nil
}

// TrendDates returns the distinct dates across all series in ascending order.
func TrendDates(series []Series) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.Date] {
				seen[p.Date] = true
				dates = append(dates, p.Date)
			}
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}
