// Package dataprocessing turns the two raw input tables (trader fills and the daily
// fear/greed index) into one merged table ready for aggregation.
//
// # Architecture
//
// The package is organized into four stages, each taking the previous stage's value
// and returning a new one:
//
// 1. Loader: reads a CSV or XLSX file into a Table of string cells
// 2. Resolver: picks the time, date, classification, PnL, side and leverage columns by name
// 3. Normalizer: parses the time column, drops unparsable rows and sorts ascending
// 4. Joiner: attaches to each trade the latest sentiment row at or before its time
//
// # Usage
//
//	trades, err := dataprocessing.Load("historical_trader_data.csv")
//	if err != nil {
//	    return err
//	}
//	timeCol, err := dataprocessing.TradeTimeColumn.Resolve(trades)
//	if err != nil {
//	    return err // MISSING_COLUMN
//	}
//	parser, _ := dataprocessing.NewTimeParser(nil, "UTC")
//	left, dropped, err := dataprocessing.Normalize(trades, timeCol, parser)
//	...
//	merged, stats := dataprocessing.JoinAsOf(left, right)
package dataprocessing
