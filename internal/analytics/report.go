package analytics

import (
	"fmt"

	"sentimentcli/internal/dataprocessing"
)

// Report collects every aggregate computed for one merged table. Leverage,
// LeverageMeans and Sides are nil when the corresponding column is absent.
type Report struct {
	Columns   dataprocessing.ResolvedColumns
	Rows      int
	Unmatched int

	Distribution  []Count
	PnL           []GroupSummary
	Leverage      []GroupSummary
	LeverageMeans *GroupMeans
	Sides         *CrossTab
	Correlation   *Matrix
	Trend         []Series
}

// Analyze computes the full report for merged using the resolved columns.
func Analyze(merged *dataprocessing.MergedTable, cols dataprocessing.ResolvedColumns) (*Report, error) {
	table := &merged.Table
	report := &Report{
		Columns: cols,
		Rows:    merged.Len(),
	}
	for _, ok := range merged.Matched {
		if !ok {
			report.Unmatched++
		}
	}

	var err error
	if report.Distribution, err = ValueCounts(table, cols.Classification); err != nil {
		return nil, fmt.Errorf("sentiment distribution: %w", err)
	}
	if report.PnL, err = GroupDescribe(table, cols.Classification, cols.PnL); err != nil {
		return nil, fmt.Errorf("pnl by sentiment: %w", err)
	}

	if cols.Leverage != "" {
		if report.Leverage, err = GroupDescribe(table, cols.Classification, cols.Leverage); err != nil {
			return nil, fmt.Errorf("leverage by sentiment: %w", err)
		}
		if report.LeverageMeans, err = MeanBy(table, cols.Classification, cols.Leverage, cols.PnL); err != nil {
			return nil, fmt.Errorf("average leverage and pnl: %w", err)
		}
	}

	if cols.Side != "" {
		if report.Sides, err = Crosstab(table, cols.Classification, cols.Side); err != nil {
			return nil, fmt.Errorf("side by sentiment: %w", err)
		}
	}

	report.Correlation = Correlation(table)

	if report.Trend, err = Trend(merged, cols.Classification, cols.PnL); err != nil {
		return nil, fmt.Errorf("pnl trend: %w", err)
	}

	return report, nil
}
