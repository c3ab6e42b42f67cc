// Package operations runs the trader sentiment analysis as a linear pipeline.
//
// A run executes a fixed sequence of steps:
//
//	load -> resolve -> normalize -> join -> aggregate -> export -> workbook -> metrics
//
// Each step produces an explicit value consumed by the next one; there is no shared
// state between runs. The first failing step stops the run and later steps stay
// pending. The workbook and metrics steps are skipped when no output path is given
// for them.
//
// # Step lifecycle
//
// Every step owns a StepState that moves from pending to active and then to
// completed, failed or skipped. Steps are wrapped in an OpenTelemetry span, log
// stage_start and stage_complete events through slog, and record their duration on
// the sentiment_step_duration histogram.
//
// # Usage
//
//	pipeline := operations.NewPipeline(
//		operations.WithLogger(logger),
//		operations.WithTracer(telemetry.Tracer),
//		operations.WithMetrics(metrics, telemetry),
//	)
//
//	result, err := pipeline.Run(ctx, operations.Request{
//		TradesFile:    "historical_trader_data.csv",
//		SentimentFile: "fear_greed_index.csv",
//		MergedFile:    "merged_trader_sentiment_data.csv",
//	})
//	if apperrors.IsMissingColumn(err) {
//		// no output was written
//	}
//
// Missing column errors are raised before the export step, so a run that cannot
// find a required column never touches the merged output file.
package operations
