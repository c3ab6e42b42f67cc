package dataprocessing

import (
	"time"
)

// Suffixes appended to column names present in both joined tables.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// Time layouts used when rendering join keys back to text.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	fracTimeLayout = "2006-01-02 15:04:05.000000"
	nanoTimeLayout = "2006-01-02 15:04:05.000000000"
	offsetLayout   = "-07:00"
)

// MergedTable is the left table extended with the columns of the matched right row.
// Row order and count equal the left table's.
type MergedTable struct {
	Table

	// TradeTimeColumn and SentimentTimeColumn are the key column names as they
	// appear in the merged header. They are equal when both inputs share a key name.
	TradeTimeColumn     string
	SentimentTimeColumn string

	TradeTimes     []time.Time
	SentimentTimes []time.Time
	Matched        []bool
}

// SentimentTime returns the matched sentiment time for row i, or false when the
// trade precedes every sentiment observation.
func (m *MergedTable) SentimentTime(i int) (time.Time, bool) {
	if !m.Matched[i] {
		return time.Time{}, false
	}
	return m.SentimentTimes[i], true
}

// JoinStats counts left rows with and without a sentiment match.
type JoinStats struct {
	Matched   int
	Unmatched int
}

// JoinAsOf pairs each left row with the last right row whose time is at or before
// the left row's time. Both inputs must be sorted ascending, as Normalize leaves
// them. A single cursor walks the right side, so the join is linear in the size of
// both tables. Rows with equal right times resolve to the last of them.
func JoinAsOf(left, right *NormalizedTable) (*MergedTable, JoinStats) {
	layout := newJoinLayout(left, right)

	merged := &MergedTable{
		Table: Table{
			Name:    left.Name,
			Columns: layout.columns,
			Rows:    make([][]string, len(left.Rows)),
		},
		TradeTimeColumn:     layout.leftKeyName,
		SentimentTimeColumn: layout.rightKeyName,
		TradeTimes:          make([]time.Time, len(left.Rows)),
		SentimentTimes:      make([]time.Time, len(left.Rows)),
		Matched:             make([]bool, len(left.Rows)),
	}

	matchIdx := make([]int, len(left.Rows))
	cursor := -1
	var stats JoinStats

	for i, at := range left.Times {
		for cursor+1 < len(right.Times) && !right.Times[cursor+1].After(at) {
			cursor++
		}
		matchIdx[i] = cursor
		merged.TradeTimes[i] = at
		if cursor >= 0 {
			merged.SentimentTimes[i] = right.Times[cursor]
			merged.Matched[i] = true
			stats.Matched++
		} else {
			stats.Unmatched++
		}
	}

	leftKeyLayout := keyLayout(merged.TradeTimes, nil)
	rightKeyLayout := keyLayout(merged.SentimentTimes, merged.Matched)

	leftKey := left.ColumnIndex(left.TimeColumn)
	rightKey := right.ColumnIndex(right.TimeColumn)

	for i, leftRow := range left.Rows {
		row := make([]string, 0, len(layout.columns))
		for c, cell := range leftRow {
			if c == leftKey {
				cell = renderKey(merged.TradeTimes[i], leftKeyLayout, left.zoned(i))
			}
			row = append(row, cell)
		}

		j := matchIdx[i]
		for _, c := range layout.rightIndices {
			if j < 0 {
				row = append(row, "")
				continue
			}
			cell := right.Rows[j][c]
			if c == rightKey {
				cell = renderKey(right.Times[j], rightKeyLayout, right.zoned(j))
			}
			row = append(row, cell)
		}
		merged.Rows[i] = row
	}

	return merged, stats
}

// joinLayout describes the merged header.
type joinLayout struct {
	columns      []string
	rightIndices []int
	leftKeyName  string
	rightKeyName string
}

// newJoinLayout lists left columns then right columns. A right key sharing the left
// key's name is folded into the left key column. Any other name present on both
// sides is suffixed on both sides.
func newJoinLayout(left, right *NormalizedTable) joinLayout {
	sharedKey := left.TimeColumn == right.TimeColumn

	var layout joinLayout
	for i, col := range right.Columns {
		if sharedKey && col == right.TimeColumn {
			continue
		}
		layout.rightIndices = append(layout.rightIndices, i)
	}

	inLeft := make(map[string]bool, len(left.Columns))
	for _, col := range left.Columns {
		inLeft[col] = true
	}
	inRight := make(map[string]bool, len(layout.rightIndices))
	for _, i := range layout.rightIndices {
		inRight[right.Columns[i]] = true
	}

	for _, col := range left.Columns {
		name := col
		if inRight[col] {
			name = col + LeftSuffix
		}
		if col == left.TimeColumn {
			layout.leftKeyName = name
		}
		layout.columns = append(layout.columns, name)
	}
	for _, i := range layout.rightIndices {
		col := right.Columns[i]
		name := col
		if inLeft[col] {
			name = col + RightSuffix
		}
		if col == right.TimeColumn {
			layout.rightKeyName = name
		}
		layout.columns = append(layout.columns, name)
	}

	if sharedKey {
		layout.rightKeyName = layout.leftKeyName
	}
	return layout
}

// keyLayout picks the text form for a rendered key column: date only when every
// value falls on midnight, nanoseconds or microseconds when any value carries a
// fraction at that precision, and seconds otherwise. When present, only entries
// with present[i] are considered.
func keyLayout(times []time.Time, present []bool) string {
	dateOnly := true
	seen := false
	layout := dateTimeLayout
	for i, t := range times {
		if present != nil && !present[i] {
			continue
		}
		seen = true
		switch ns := t.Nanosecond(); {
		case ns%1000 != 0:
			return nanoTimeLayout
		case ns != 0:
			layout = fracTimeLayout
		}
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
			dateOnly = false
		}
	}
	if seen && dateOnly {
		return dateLayout
	}
	return layout
}

// renderKey formats t with layout. A value that carried its own offset is written
// with the clock and that offset.
func renderKey(t time.Time, layout string, zoned bool) string {
	if !zoned {
		return t.Format(layout)
	}
	if layout == dateLayout {
		layout = dateTimeLayout
	}
	return t.Format(layout + offsetLayout)
}
