package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimentcli/internal/dataprocessing"
	apperrors "sentimentcli/internal/errors"
)

func tradesTable() *dataprocessing.Table {
	return &dataprocessing.Table{
		Name:    "merged",
		Columns: []string{"Side", "Closed PnL", "leverage", "classification"},
		Rows: [][]string{
			{"BUY", "10", "5", "Greed"},
			{"SELL", "-5", "10", "Greed"},
			{"BUY", "20", "15", "Greed"},
			{"SELL", "-8", "2", "Fear"},
			{"BUY", "4", "", "Fear"},
			{"BUY", "99", "1", ""},
			{"SELL", "n/a", "3", "Neutral"},
		},
	}
}

func TestGroupDescribe(t *testing.T) {
	groups, err := GroupDescribe(tradesTable(), "classification", "Closed PnL")
	require.NoError(t, err)

	// Empty key excluded; Neutral has no numeric PnL
	require.Len(t, groups, 2)
	assert.Equal(t, "Fear", groups[0].Group)
	assert.Equal(t, "Greed", groups[1].Group)

	greed := groups[1]
	assert.Equal(t, 3, greed.Count)
	assert.InDelta(t, 8.333333, greed.Mean, 1e-5)
	assert.Equal(t, -5.0, greed.Min)
	assert.Equal(t, 20.0, greed.Max)

	fear := groups[0]
	assert.Equal(t, 2, fear.Count)
	assert.Equal(t, -2.0, fear.Mean)
}

func TestGroupDescribe_UnknownColumn(t *testing.T) {
	_, err := GroupDescribe(tradesTable(), "classification", "pnl")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestValueCounts(t *testing.T) {
	counts, err := ValueCounts(tradesTable(), "classification")
	require.NoError(t, err)

	assert.Equal(t, []Count{
		{Label: "Greed", Count: 3},
		{Label: "Fear", Count: 2},
		{Label: "Neutral", Count: 1},
	}, counts)
}

func TestValueCounts_TiesByLabel(t *testing.T) {
	table := &dataprocessing.Table{
		Columns: []string{"classification"},
		Rows:    [][]string{{"Greed"}, {"Fear"}, {"Extreme Fear"}},
	}

	counts, err := ValueCounts(table, "classification")
	require.NoError(t, err)
	assert.Equal(t, []string{"Extreme Fear", "Fear", "Greed"},
		[]string{counts[0].Label, counts[1].Label, counts[2].Label})
}

func TestCrosstab(t *testing.T) {
	ct, err := Crosstab(tradesTable(), "classification", "Side")
	require.NoError(t, err)

	assert.Equal(t, []string{"Fear", "Greed", "Neutral"}, ct.Rows)
	assert.Equal(t, []string{"BUY", "SELL"}, ct.Columns)
	assert.Equal(t, [][]int{
		{1, 1},
		{2, 1},
		{0, 1},
	}, ct.Counts)
}

func TestMeanBy(t *testing.T) {
	gm, err := MeanBy(tradesTable(), "classification", "leverage", "Closed PnL")
	require.NoError(t, err)

	assert.Equal(t, []string{"Fear", "Greed", "Neutral"}, gm.Groups)
	assert.Equal(t, []string{"leverage", "Closed PnL"}, gm.Columns)

	assert.Equal(t, 2.0, gm.Means[0][0])
	assert.Equal(t, -2.0, gm.Means[0][1])
	assert.Equal(t, 10.0, gm.Means[1][0])
	assert.Equal(t, 3.0, gm.Means[2][0])
	assert.True(t, math.IsNaN(gm.Means[2][1]))
}

func TestMeanBy_UnknownColumn(t *testing.T) {
	_, err := MeanBy(tradesTable(), "classification", "Size USD")
	require.Error(t, err)
}
