package dataprocessing

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	apperrors "sentimentcli/internal/errors"
)

// DefaultTimeLayouts are tried, in order, before the numeric and free-form fallbacks.
// Dash-separated dates are day-first (exchange exports), slash-separated are US
// month-first. Eight-digit compact dates are matched here so they never reach the
// epoch fallback.
var DefaultTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Epoch magnitude thresholds: below 1e11 a number is seconds, then milliseconds,
// microseconds and nanoseconds.
const (
	epochMillisFrom = 1e11
	epochMicrosFrom = 1e14
	epochNanosFrom  = 1e17
)

// TimeParser converts cell text to an instant.
type TimeParser struct {
	layouts  []string
	location *time.Location
}

// NewTimeParser builds a parser that tries layouts (DefaultTimeLayouts when empty)
// and interprets zone-less values in timezone (UTC when empty).
func NewTimeParser(layouts []string, timezone string) (*TimeParser, error) {
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}

	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("unknown timezone %q", timezone), err)
		}
	}

	return &TimeParser{
		layouts:  slices.Clone(layouts),
		location: loc,
	}, nil
}

// Location returns the zone used for values without an explicit offset.
func (p *TimeParser) Location() *time.Location {
	return p.location
}

// Parse returns the instant for value, or false when nothing recognizes it.
func (p *TimeParser) Parse(value string) (time.Time, bool) {
	t, _, ok := p.ParseZoned(value)
	return t, ok
}

// ParseZoned is Parse that also reports whether value carried its own UTC offset.
// Such a value keeps that offset; any other value is placed in Location.
func (p *TimeParser) ParseZoned(value string) (time.Time, bool, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}

	parseLayouts := func(loc *time.Location) (time.Time, bool) {
		for _, layout := range p.layouts {
			if t, err := time.ParseInLocation(layout, value, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if t, ok := parseLayouts(p.location); ok {
		at, zoned := p.withOffset(t, parseLayouts)
		return at, zoned, true
	}

	if t, ok := p.parseEpoch(value); ok {
		return t, false, true
	}

	parseFree := func(loc *time.Location) (time.Time, bool) {
		t, err := dateparse.ParseIn(value, loc)
		return t, err == nil
	}
	if t, ok := parseFree(p.location); ok {
		at, zoned := p.withOffset(t, parseFree)
		return at, zoned, true
	}
	return time.Time{}, false, false
}

// withOffset reparses a value in a zone one hour east of t's. The instant only
// survives the shift when the text fixed its own offset, in which case t is
// returned in that offset.
func (p *TimeParser) withOffset(t time.Time, reparse func(*time.Location) (time.Time, bool)) (time.Time, bool) {
	_, offset := t.Zone()
	shifted, ok := reparse(time.FixedZone("", offset+3600))
	if !ok || !shifted.Equal(t) {
		return t.In(p.location), false
	}
	return t.In(time.FixedZone("", offset)), true
}

func (p *TimeParser) parseEpoch(value string) (time.Time, bool) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, false
	}

	var t time.Time
	switch abs := math.Abs(v); {
	case abs < epochMillisFrom:
		sec, frac := math.Modf(v)
		t = time.Unix(int64(sec), int64(math.Round(frac*1e9)))
	case abs < epochMicrosFrom:
		t = time.UnixMilli(int64(v))
	case abs < epochNanosFrom:
		t = time.UnixMicro(int64(v))
	default:
		if abs > math.MaxInt64 {
			return time.Time{}, false
		}
		t = time.Unix(0, int64(v))
	}
	return t.In(p.location), true
}

// NormalizedTable is a table sorted ascending by a parsed time column. Times[i] is
// the parsed value of Rows[i]; Zoned[i] is set when that value carried its own UTC
// offset.
type NormalizedTable struct {
	Table
	TimeColumn string
	Times      []time.Time
	Zoned      []bool
}

func (n *NormalizedTable) zoned(i int) bool {
	return i < len(n.Zoned) && n.Zoned[i]
}

// Normalize parses column in every row, drops rows whose value cannot be parsed and
// stable-sorts the remainder ascending by time. The number of dropped rows is
// returned alongside.
func Normalize(table *Table, column string, parser *TimeParser) (*NormalizedTable, int, error) {
	idx := table.ColumnIndex(column)
	if idx < 0 {
		return nil, 0, apperrors.NewNotFoundError(fmt.Sprintf("column %q in %s", column, table.Name))
	}

	type parsedRow struct {
		row   []string
		at    time.Time
		zoned bool
	}

	parsed := make([]parsedRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		at, zoned, ok := parser.ParseZoned(row[idx])
		if !ok {
			continue
		}
		parsed = append(parsed, parsedRow{row: row, at: at, zoned: zoned})
	}

	slices.SortStableFunc(parsed, func(a, b parsedRow) int {
		return a.at.Compare(b.at)
	})

	out := &NormalizedTable{
		Table: Table{
			Name:    table.Name,
			Columns: slices.Clone(table.Columns),
			Rows:    make([][]string, len(parsed)),
		},
		TimeColumn: column,
		Times:      make([]time.Time, len(parsed)),
		Zoned:      make([]bool, len(parsed)),
	}
	for i, p := range parsed {
		out.Rows[i] = p.row
		out.Times[i] = p.at
		out.Zoned[i] = p.zoned
	}

	return out, len(table.Rows) - len(parsed), nil
}
