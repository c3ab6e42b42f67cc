// Package exporter writes the artifacts of a sentiment run.
//
// This package contains three main components:
//
// CSVWriter: writes the merged trader/sentiment table with a header row and no
// index column. Files are replaced atomically and may carry a UTF-8 BOM for Excel.
//
// WorkbookWriter: renders an analytics report as an XLSX workbook with one sheet per
// breakdown (distribution, PnL, leverage, side, correlation, trend) and a chart on
// each.
//
// WriteSummary: prints the same breakdowns as aligned plain-text tables.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(logger)
//	err := writer.WriteTable("merged_trader_sentiment_data.csv", &merged.Table, false)
//
//	err = exporter.NewWorkbookWriter(logger).Write("reports/sentiment.xlsx", report)
//
//	err = exporter.WriteSummary(os.Stdout, report)
package exporter
