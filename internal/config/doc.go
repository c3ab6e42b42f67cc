// Package config provides configuration management for the sentiment report.
// It loads configuration from environment variables and an optional YAML file,
// validates it, and resolves every file location a run reads or writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SENTIMENT_* for namespacing:
//
//	SENTIMENT_INPUT_TRADES_FILE=historical_trader_data.csv
//	SENTIMENT_INPUT_SENTIMENT_FILE=fear_greed_index.csv
//	SENTIMENT_OUTPUT_MERGED_FILE=merged_trader_sentiment_data.csv
//	SENTIMENT_OUTPUT_WORKBOOK_FILE=reports/sentiment.xlsx
//	SENTIMENT_LOGGING_LEVEL=debug
//
// # Path Management
//
// Paths resolves relative locations against a base directory (the working
// directory by default):
//
//	paths, err := config.GetPaths(cfg, "")
//	if err := paths.ValidateRequiredFiles(); err != nil {
//	    ...
//	}
package config
