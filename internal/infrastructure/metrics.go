package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the counters and histograms recorded by a run
type PipelineMetrics struct {
	rowsLoaded      metric.Int64Counter
	rowsDropped     metric.Int64Counter
	tradesUnmatched metric.Int64Counter
	stepDuration    metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"sentiment_rows_loaded",
		metric.WithDescription("Rows read from an input table"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"sentiment_rows_dropped",
		metric.WithDescription("Rows dropped because their time value could not be parsed"),
	)
	if err != nil {
		return nil, err
	}

	tradesUnmatched, err := meter.Int64Counter(
		"sentiment_trades_unmatched",
		metric.WithDescription("Trades with no sentiment observation at or before their timestamp"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"sentiment_step_duration",
		metric.WithDescription("Pipeline step duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		rowsLoaded:      rowsLoaded,
		rowsDropped:     rowsDropped,
		tradesUnmatched: tradesUnmatched,
		stepDuration:    stepDuration,
	}, nil
}

// RecordLoad records the rows read from a table
func (m *PipelineMetrics) RecordLoad(ctx context.Context, table string, rows int) {
	if m == nil {
		return
	}
	m.rowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("table", table)))
}

// RecordDropped records rows removed by time normalization
func (m *PipelineMetrics) RecordDropped(ctx context.Context, table string, rows int) {
	if m == nil {
		return
	}
	m.rowsDropped.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("table", table)))
}

// RecordUnmatched records trades left without a sentiment observation
func (m *PipelineMetrics) RecordUnmatched(ctx context.Context, trades int) {
	if m == nil {
		return
	}
	m.tradesUnmatched.Add(ctx, int64(trades))
}

// RecordStep records how long a step ran and whether it succeeded
func (m *PipelineMetrics) RecordStep(ctx context.Context, step string, duration time.Duration, status string) {
	if m == nil {
		return
	}
	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	))
}
