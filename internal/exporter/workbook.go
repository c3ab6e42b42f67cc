package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"sentimentcli/internal/analytics"
	apperrors "sentimentcli/internal/errors"
)

// Sheet names of the analysis workbook.
const (
	SheetDistribution = "Distribution"
	SheetPnL          = "PnL by Sentiment"
	SheetLeverage     = "Leverage by Sentiment"
	SheetSides        = "Side by Sentiment"
	SheetCorrelation  = "Correlation"
	SheetTrend        = "Trend"
)

const (
	trendDateLayout = "2006-01-02"
	trendTimeLayout = "2006-01-02 15:04:05"
)

// WorkbookWriter renders an analytics report as an XLSX workbook with one sheet and
// chart per breakdown.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write builds the workbook for report and replaces filePath with it.
func (w *WorkbookWriter) Write(filePath string, report *analytics.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.build(f, report); err != nil {
		return apperrors.NewStorageError("failed to build analysis workbook", err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to write workbook", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close temporary file", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return apperrors.NewStorageError("failed to set file mode", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to replace %s", filePath), err)
	}

	w.logger.Info("Analysis workbook written",
		slog.String("file_path", filePath),
		slog.Any("sheets", f.GetSheetList()))
	return nil
}

func (w *WorkbookWriter) build(f *excelize.File, report *analytics.Report) error {
	// The default sheet becomes the first analysis sheet
	if err := f.SetSheetName(f.GetSheetName(0), SheetDistribution); err != nil {
		return err
	}
	if err := writeDistribution(f, report); err != nil {
		return fmt.Errorf("%s: %w", SheetDistribution, err)
	}

	if err := writeDescribeSheet(f, SheetPnL, report.Columns.Classification, report.Columns.PnL, report.PnL); err != nil {
		return fmt.Errorf("%s: %w", SheetPnL, err)
	}

	if report.Leverage != nil {
		if err := writeDescribeSheet(f, SheetLeverage, report.Columns.Classification, report.Columns.Leverage, report.Leverage); err != nil {
			return fmt.Errorf("%s: %w", SheetLeverage, err)
		}
	}

	if report.Sides != nil {
		if err := writeSides(f, report); err != nil {
			return fmt.Errorf("%s: %w", SheetSides, err)
		}
	}

	if err := writeCorrelation(f, report.Correlation); err != nil {
		return fmt.Errorf("%s: %w", SheetCorrelation, err)
	}

	if err := writeTrend(f, report); err != nil {
		return fmt.Errorf("%s: %w", SheetTrend, err)
	}

	f.SetActiveSheet(0)
	return nil
}

func writeDistribution(f *excelize.File, report *analytics.Report) error {
	sheet := SheetDistribution
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{report.Columns.Classification, "count"}); err != nil {
		return err
	}
	for i, c := range report.Distribution {
		if err := setRow(f, sheet, i+2, c.Label, c.Count); err != nil {
			return err
		}
	}
	if len(report.Distribution) == 0 {
		return nil
	}

	last := len(report.Distribution) + 1
	return f.AddChart(sheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       rangeRef(sheet, 2, 1, 2, 1),
			Categories: rangeRef(sheet, 1, 2, 1, last),
			Values:     rangeRef(sheet, 2, 2, 2, last),
		}},
		Title:  []excelize.RichTextRun{{Text: "Market Sentiment Distribution"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func writeDescribeSheet(f *excelize.File, sheet, groupLabel, valueLabel string, groups []analytics.GroupSummary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{groupLabel}
	for _, h := range describeHeader {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, g := range groups {
		total, _ := g.Total.Float64()
		err := setRow(f, sheet, i+2,
			g.Group, g.Count,
			cellValue(g.Mean), cellValue(g.Std), cellValue(g.Min),
			cellValue(g.P25), cellValue(g.P50), cellValue(g.P75), cellValue(g.Max),
			total)
		if err != nil {
			return err
		}
	}
	if len(groups) == 0 {
		return nil
	}

	last := len(groups) + 1
	return f.AddChart(sheet, "L2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       rangeRef(sheet, 3, 1, 3, 1),
			Categories: rangeRef(sheet, 1, 2, 1, last),
			Values:     rangeRef(sheet, 3, 2, 3, last),
		}},
		Title:  []excelize.RichTextRun{{Text: "Mean " + valueLabel + " by Sentiment"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func writeSides(f *excelize.File, report *analytics.Report) error {
	sheet := SheetSides
	ct := report.Sides
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{report.Columns.Classification}
	for _, c := range ct.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, label := range ct.Rows {
		values := []interface{}{label}
		for _, n := range ct.Counts[i] {
			values = append(values, n)
		}
		if err := setRow(f, sheet, i+2, values...); err != nil {
			return err
		}
	}
	if len(ct.Rows) == 0 {
		return nil
	}

	last := len(ct.Rows) + 1
	series := make([]excelize.ChartSeries, len(ct.Columns))
	for c := range ct.Columns {
		col := c + 2
		series[c] = excelize.ChartSeries{
			Name:       rangeRef(sheet, col, 1, col, 1),
			Categories: rangeRef(sheet, 1, 2, 1, last),
			Values:     rangeRef(sheet, col, 2, col, last),
		}
	}
	return f.AddChart(sheet, cellName(len(ct.Columns)+3, 2), &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Trade Side vs Market Sentiment"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
}

func writeCorrelation(f *excelize.File, m *analytics.Matrix) error {
	sheet := SheetCorrelation
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if m == nil || len(m.Columns) == 0 {
		return f.SetCellValue(sheet, "A1", "no numeric columns")
	}

	header := []interface{}{""}
	for _, c := range m.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, col := range m.Columns {
		values := []interface{}{col}
		for _, v := range m.Values[i] {
			values = append(values, cellValue(v))
		}
		if err := setRow(f, sheet, i+2, values...); err != nil {
			return err
		}
	}

	// Color scale from -1 to 1 stands in for a heatmap
	n := len(m.Columns)
	return f.SetConditionalFormat(sheet, cellName(2, 2)+":"+cellName(n+1, n+1), []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "num",
		MinValue: "-1",
		MinColor: "#F8696B",
		MidType:  "num",
		MidValue: "0",
		MidColor: "#FFFFFF",
		MaxType:  "num",
		MaxValue: "1",
		MaxColor: "#5A8AC6",
	}})
}

func writeTrend(f *excelize.File, report *analytics.Report) error {
	sheet := SheetTrend
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"date"}
	for _, s := range report.Trend {
		header = append(header, s.Group)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	dates := analytics.TrendDates(report.Trend)
	layout := trendLayout(dates)
	for i, date := range dates {
		values := []interface{}{date.Format(layout)}
		for _, s := range report.Trend {
			values = append(values, meanOn(s, date))
		}
		if err := setRow(f, sheet, i+2, values...); err != nil {
			return err
		}
	}
	if len(dates) == 0 {
		return nil
	}

	last := len(dates) + 1
	series := make([]excelize.ChartSeries, len(report.Trend))
	for s := range report.Trend {
		col := s + 2
		series[s] = excelize.ChartSeries{
			Name:       rangeRef(sheet, col, 1, col, 1),
			Categories: rangeRef(sheet, 1, 2, 1, last),
			Values:     rangeRef(sheet, col, 2, col, last),
		}
	}
	return f.AddChart(sheet, cellName(len(report.Trend)+3, 2), &excelize.Chart{
		Type:         excelize.Line,
		Series:       series,
		Title:        []excelize.RichTextRun{{Text: "Average Trader " + report.Columns.PnL + " Over Time by Sentiment"}},
		Legend:       excelize.ChartLegend{Position: "bottom"},
		ShowBlanksAs: "gap",
	})
}

// meanOn returns the series mean at date, or nil when the category has no trades
// matched to that sentiment observation.
func meanOn(s analytics.Series, date time.Time) interface{} {
	for _, p := range s.Points {
		if p.Date.Equal(date) {
			return cellValue(p.Mean)
		}
	}
	return nil
}

// trendLayout labels daily observations by date and anything finer by time.
func trendLayout(dates []time.Time) string {
	for _, d := range dates {
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			return trendTimeLayout
		}
	}
	return trendDateLayout
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	return f.SetSheetRow(sheet, cellName(1, row), &values)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// rangeRef builds an absolute, quoted reference such as 'PnL by Sentiment'!$A$2:$A$5.
func rangeRef(sheet string, col1, row1, col2, row2 int) string {
	from, _ := excelize.CoordinatesToCellName(col1, row1, true)
	to, _ := excelize.CoordinatesToCellName(col2, row2, true)
	return fmt.Sprintf("'%s'!%s:%s", sheet, from, to)
}
