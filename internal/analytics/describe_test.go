package analytics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{input: "10", want: 10, ok: true},
		{input: " -5.25 ", want: -5.25, ok: true},
		{input: "1,234.5", want: 1234.5, ok: true},
		{input: "-12,345,678", want: -12345678, ok: true},
		{input: "1,5", ok: false},
		{input: "12,34.5", ok: false},
		{input: "1,2345", ok: false},
		{input: "1e3", want: 1000, ok: true},
		{input: "", ok: false},
		{input: "   ", ok: false},
		{input: "BUY", ok: false},
		{input: "NaN", ok: false},
		{input: "NA", ok: false},
		{input: "null", ok: false},
		{input: "Inf", ok: false},
		{input: "0xabc", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsNull(t *testing.T) {
	for _, cell := range []string{"", "  ", "NaN", "nan", "-NaN", " NA ", "N/A", "null", "NULL", "None", "<NA>", "#N/A"} {
		assert.True(t, IsNull(cell), "%q", cell)
	}
	for _, cell := range []string{"0", "Na", "none", "BUY", "Extreme Fear"} {
		assert.False(t, IsNull(cell), "%q", cell)
	}
}

func TestDescribe_DecimalCommaIsNotThousands(t *testing.T) {
	s := Describe([]string{"1,5", "2", "1,000"})
	assert.Equal(t, 2, s.Count)
	assert.True(t, decimal.NewFromInt(1002).Equal(s.Total))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		check func(t *testing.T, s Summary)
	}{
		{
			name:  "three values",
			cells: []string{"10", "-5", "20"},
			check: func(t *testing.T, s Summary) {
				assert.Equal(t, 3, s.Count)
				assert.InDelta(t, 8.3333333, s.Mean, 1e-6)
				assert.InDelta(t, 12.5830574, s.Std, 1e-6)
				assert.Equal(t, -5.0, s.Min)
				assert.Equal(t, 2.5, s.P25)
				assert.Equal(t, 10.0, s.P50)
				assert.Equal(t, 15.0, s.P75)
				assert.Equal(t, 20.0, s.Max)
				assert.True(t, decimal.NewFromInt(25).Equal(s.Total))
			},
		},
		{
			name:  "non-numeric cells skipped",
			cells: []string{"1", "", "n/a", "3"},
			check: func(t *testing.T, s Summary) {
				assert.Equal(t, 2, s.Count)
				assert.Equal(t, 2.0, s.Mean)
				assert.Equal(t, 2.0, s.P50)
			},
		},
		{
			name:  "single value has no spread",
			cells: []string{"7"},
			check: func(t *testing.T, s Summary) {
				assert.Equal(t, 1, s.Count)
				assert.Equal(t, 7.0, s.Mean)
				assert.True(t, math.IsNaN(s.Std))
				assert.Equal(t, 7.0, s.P25)
				assert.Equal(t, 7.0, s.P75)
			},
		},
		{
			name:  "empty",
			cells: nil,
			check: func(t *testing.T, s Summary) {
				assert.Equal(t, 0, s.Count)
				assert.True(t, math.IsNaN(s.Mean))
				assert.True(t, math.IsNaN(s.Min))
				assert.True(t, s.Total.IsZero())
			},
		},
		{
			name:  "total is exact",
			cells: []string{"0.1", "0.2", "1,000.7"},
			check: func(t *testing.T, s Summary) {
				assert.Equal(t, "1001", s.Total.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Describe(tt.cells))
		})
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.Equal(t, 1.75, percentile(sorted, 0.25))
	assert.Equal(t, 2.5, percentile(sorted, 0.5))
	assert.Equal(t, 3.25, percentile(sorted, 0.75))
	assert.Equal(t, 4.0, percentile(sorted, 1))
	assert.True(t, math.IsNaN(percentile(nil, 0.5)))
}
