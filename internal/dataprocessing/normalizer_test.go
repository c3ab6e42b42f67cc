package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sentimentcli/internal/errors"
)

func mustParser(t *testing.T, layouts []string, tz string) *TimeParser {
	t.Helper()
	p, err := NewTimeParser(layouts, tz)
	require.NoError(t, err)
	return p
}

func TestTimeParser_Parse(t *testing.T) {
	parser := mustParser(t, nil, "UTC")

	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{name: "date only", input: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "date and time", input: "2024-01-15 09:30:00", want: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), ok: true},
		{name: "fractional seconds", input: "2024-01-15 09:30:00.250", want: time.Date(2024, 1, 15, 9, 30, 0, 250000000, time.UTC), ok: true},
		{name: "rfc3339 with offset", input: "2024-01-15T09:30:00+05:30", want: time.Date(2024, 1, 15, 4, 0, 0, 0, time.UTC), ok: true},
		{name: "day first dashes", input: "02-12-2024 22:50", want: time.Date(2024, 12, 2, 22, 50, 0, 0, time.UTC), ok: true},
		{name: "month first slashes", input: "12/02/2024", want: time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "compact date", input: "20240101", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "epoch seconds", input: "1517463000", want: time.Unix(1517463000, 0).UTC(), ok: true},
		{name: "epoch milliseconds", input: "1730000000000", want: time.UnixMilli(1730000000000).UTC(), ok: true},
		{name: "epoch scientific notation", input: "1.73e+12", want: time.UnixMilli(1730000000000).UTC(), ok: true},
		{name: "surrounding whitespace", input: "  2024-01-15 ", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "free form fallback", input: "January 15, 2024", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "Extreme Fear", ok: false},
		{name: "nan", input: "NaN", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTimeParser_ParseZoned(t *testing.T) {
	parser := mustParser(t, nil, "UTC")

	tests := []struct {
		name       string
		input      string
		wantZoned  bool
		wantOffset int
	}{
		{name: "explicit offset", input: "2024-01-01T10:00:00+05:30", wantZoned: true, wantOffset: 5*3600 + 1800},
		{name: "utc designator", input: "2024-01-01T10:00:00Z", wantZoned: true},
		{name: "free form offset", input: "Mon, 01 Jan 2024 10:00:00 -0300", wantZoned: true, wantOffset: -3 * 3600},
		{name: "no offset", input: "2024-01-01 10:00:00"},
		{name: "epoch", input: "1704103200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, zoned, ok := parser.ParseZoned(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.wantZoned, zoned)
			if tt.wantZoned {
				_, offset := got.Zone()
				assert.Equal(t, tt.wantOffset, offset)
			}
		})
	}
}

func TestTimeParser_Location(t *testing.T) {
	parser := mustParser(t, nil, "Asia/Kolkata")

	got, ok := parser.Parse("2024-01-15 05:30:00")
	require.True(t, ok)
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(got))
	assert.Equal(t, "Asia/Kolkata", got.Location().String())
}

func TestTimeParser_CustomLayouts(t *testing.T) {
	parser := mustParser(t, []string{"02/01/2006"}, "")

	got, ok := parser.Parse("02/01/2024")
	require.True(t, ok)
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 2, got.Day())
}

func TestNewTimeParser_UnknownZone(t *testing.T) {
	_, err := NewTimeParser(nil, "Mars/Olympus")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestNormalize(t *testing.T) {
	table := &Table{
		Name:    "trader",
		Columns: []string{"id", "Timestamp"},
		Rows: [][]string{
			{"a", "2024-01-01 14:30"},
			{"b", "bad"},
			{"c", "2024-01-01 09:00"},
			{"d", ""},
			{"e", "2024-01-01 11:00"},
			{"f", "2024-01-01 09:00"},
		},
	}

	out, dropped, err := Normalize(table, "Timestamp", mustParser(t, nil, "UTC"))
	require.NoError(t, err)

	assert.Equal(t, 2, dropped)
	assert.Equal(t, "Timestamp", out.TimeColumn)
	assert.Equal(t, table.Columns, out.Columns)
	require.Len(t, out.Rows, 4)
	require.Len(t, out.Times, 4)

	ids := make([]string, len(out.Rows))
	for i, row := range out.Rows {
		ids[i] = row[0]
	}
	// Equal timestamps keep file order
	assert.Equal(t, []string{"c", "f", "e", "a"}, ids)

	for i := 1; i < len(out.Times); i++ {
		assert.False(t, out.Times[i].Before(out.Times[i-1]))
	}

	// Input is left untouched
	assert.Equal(t, "a", table.Rows[0][0])
	assert.Len(t, table.Rows, 6)
}

func TestNormalize_UnknownColumn(t *testing.T) {
	table := &Table{Name: "trader", Columns: []string{"id"}}

	_, _, err := Normalize(table, "Timestamp", mustParser(t, nil, "UTC"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}
