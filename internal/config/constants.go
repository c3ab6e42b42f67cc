package config

// Application constants
const (
	AppName    = "sentiment-report"
	AppVersion = "1.0.0"

	// Default file names, relative to the base directory. These match the fixed
	// locations the analysis has always read from and written to.
	DefaultTradesFile    = "historical_trader_data.csv"
	DefaultSentimentFile = "fear_greed_index.csv"
	DefaultMergedFile    = "merged_trader_sentiment_data.csv"
)
