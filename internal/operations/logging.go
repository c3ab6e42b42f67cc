package operations

import (
	"context"
	"log/slog"
	"time"
)

// logRunStart logs the start of a run
func (p *Pipeline) logRunStart(ctx context.Context, req Request) {
	p.logger.InfoContext(ctx, "run_start",
		slog.String("trades_file", req.TradesFile),
		slog.String("sentiment_file", req.SentimentFile),
		slog.String("merged_file", req.MergedFile),
		slog.String("workbook_file", req.WorkbookFile),
		slog.String("metrics_file", req.MetricsFile))
}

// logRunComplete logs the completion of a run
func (p *Pipeline) logRunComplete(ctx context.Context, result *Result) {
	p.logger.InfoContext(ctx, "run_complete",
		slog.Int("rows", result.Merged.Len()),
		slog.Int("unmatched", result.Join.Unmatched),
		slog.Duration("duration", result.Duration))
}

// logRunError logs a failed run
func (p *Pipeline) logRunError(ctx context.Context, err error) {
	p.logger.ErrorContext(ctx, "run_error",
		slog.String("step", FailedStep(err)),
		slog.String("error", err.Error()))
}

// logStepStart logs the start of a step
func (p *Pipeline) logStepStart(ctx context.Context, stepID string) {
	p.logger.InfoContext(ctx, "stage_start",
		slog.String("step", stepID))
}

// logStepComplete logs the completion of a step
func (p *Pipeline) logStepComplete(ctx context.Context, stepID string, duration time.Duration) {
	p.logger.InfoContext(ctx, "stage_complete",
		slog.String("step", stepID),
		slog.Duration("duration", duration))
}

// logStepError logs a step error
func (p *Pipeline) logStepError(ctx context.Context, stepID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	p.logger.ErrorContext(ctx, "stage_error",
		slog.String("step", stepID),
		slog.String("error", errorMsg))
}

// logStepSkipped logs a step that had nothing to do
func (p *Pipeline) logStepSkipped(ctx context.Context, stepID, reason string) {
	p.logger.DebugContext(ctx, "stage_skipped",
		slog.String("step", stepID),
		slog.String("reason", reason))
}
