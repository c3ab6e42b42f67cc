package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sentimentcli/internal/analytics"
	"sentimentcli/internal/dataprocessing"
	apperrors "sentimentcli/internal/errors"
	"sentimentcli/internal/exporter"
	"sentimentcli/internal/infrastructure"
)

// MetricsWriter dumps collected metrics to a file. *infrastructure.Telemetry
// satisfies it.
type MetricsWriter interface {
	WriteMetrics(path string) error
}

// Request names the inputs and outputs of one run. Empty WorkbookFile or
// MetricsFile skips that step.
type Request struct {
	TradesFile    string
	SentimentFile string

	MergedFile   string
	WorkbookFile string
	MetricsFile  string
	BOMPrefix    bool

	// TimeLayouts overrides the default layouts tried before epoch and free-form
	// parsing. Timezone applies to values without an offset; empty means UTC.
	TimeLayouts []string
	Timezone    string
}

// Validate checks that the required paths are set
func (r Request) Validate() error {
	switch {
	case r.TradesFile == "":
		return apperrors.NewAppValidationError("trades file is required")
	case r.SentimentFile == "":
		return apperrors.NewAppValidationError("sentiment file is required")
	case r.MergedFile == "":
		return apperrors.NewAppValidationError("merged output file is required")
	}
	return nil
}

// Result describes what a run did. It is returned even when a step fails, with
// the steps after the failure left pending.
type Result struct {
	RunID string
	Steps []*StepState

	Trades    *dataprocessing.Table
	Sentiment *dataprocessing.Table

	TradeTimeColumn     string
	SentimentDateColumn string
	DroppedTrades       int
	DroppedSentiment    int

	Join    dataprocessing.JoinStats
	Merged  *dataprocessing.MergedTable
	Columns dataprocessing.ResolvedColumns
	Report  *analytics.Report

	Duration time.Duration
}

// Step returns the state of the step with the given ID
func (r *Result) Step(id string) *StepState {
	for _, s := range r.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Pipeline executes runs. It holds no per-run state and may be reused.
type Pipeline struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *infrastructure.PipelineMetrics
	metricsSink MetricsWriter
	csv         *exporter.CSVWriter
	workbook    *exporter.WorkbookWriter
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for run and step events
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets the tracer used for run and step spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMetrics records pipeline instruments on metrics and lets the metrics step
// dump them through sink.
func WithMetrics(metrics *infrastructure.PipelineMetrics, sink MetricsWriter) Option {
	return func(p *Pipeline) {
		p.metrics = metrics
		p.metricsSink = sink
	}
}

// NewPipeline creates a pipeline. Without options it logs to slog.Default and
// uses the global tracer provider.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: slog.Default(),
		tracer: otel.Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.csv = exporter.NewCSVWriter(p.logger)
	p.workbook = exporter.NewWorkbookWriter(p.logger)
	return p
}

// run carries the values passed between steps of one execution
type run struct {
	req    Request
	result *Result

	tradeTimes     *dataprocessing.NormalizedTable
	sentimentTimes *dataprocessing.NormalizedTable
}

type stepFunc func(ctx context.Context, r *run, state *StepState) error

type stepDef struct {
	id   string
	name string
	exec stepFunc
	// skip returns a reason when the step has nothing to do
	skip func(r *run) string
}

func (p *Pipeline) steps() []stepDef {
	return []stepDef{
		{id: StepLoad, name: "Load input tables", exec: p.load},
		{id: StepResolve, name: "Resolve time columns", exec: p.resolve},
		{id: StepNormalize, name: "Normalize timestamps", exec: p.normalize},
		{id: StepJoin, name: "As-of join", exec: p.join},
		{id: StepAggregate, name: "Aggregate by sentiment", exec: p.aggregate},
		{id: StepExport, name: "Export merged table", exec: p.export},
		{id: StepWorkbook, name: "Write analysis workbook", exec: p.writeWorkbook, skip: p.skipWorkbook},
		{id: StepMetrics, name: "Write metrics", exec: p.writeMetrics, skip: p.skipMetrics},
	}
}

// Run executes every step in order and stops at the first failure. An invalid
// request fails before any step starts and returns a nil Result. Step failures
// are wrapped in a *StepError, so errors.As and the apperrors helpers still see
// the cause.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("input.trades", req.TradesFile),
			attribute.String("input.sentiment", req.SentimentFile),
		),
	)
	defer span.End()

	steps := p.steps()
	r := &run{
		req:    req,
		result: &Result{RunID: runID, Steps: make([]*StepState, len(steps))},
	}
	for i, s := range steps {
		r.result.Steps[i] = NewStepState(s.id, s.name)
	}

	start := time.Now()
	p.logRunStart(ctx, req)

	for i, s := range steps {
		state := r.result.Steps[i]

		if err := ctx.Err(); err != nil {
			err = &StepError{Step: s.id, Err: fmt.Errorf("%w: %w", ErrCanceled, err)}
			return p.finishRun(ctx, r, start, err)
		}

		if s.skip != nil {
			if reason := s.skip(r); reason != "" {
				state.Start()
				state.Skip(reason)
				p.logStepSkipped(ctx, s.id, reason)
				p.metrics.RecordStep(ctx, s.id, state.Duration(), string(StepStatusSkipped))
				continue
			}
		}

		if err := p.execute(ctx, s, r, state); err != nil {
			return p.finishRun(ctx, r, start, &StepError{Step: s.id, Err: err})
		}
	}

	return p.finishRun(ctx, r, start, nil)
}

func (p *Pipeline) execute(ctx context.Context, s stepDef, r *run, state *StepState) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.step."+s.id,
		trace.WithAttributes(attribute.String("step.id", s.id)))
	defer span.End()

	state.Start()
	p.logStepStart(ctx, s.id)

	err := s.exec(ctx, r, state)
	if err != nil {
		state.Fail(err)
		infrastructure.RecordError(ctx, err)
		p.logStepError(ctx, s.id, err)
	} else {
		state.Complete()
		recordStepSpan(ctx, state)
		p.logStepComplete(ctx, s.id, state.Duration())
	}

	p.metrics.RecordStep(ctx, s.id, state.Duration(), string(state.CurrentStatus()))
	return err
}

func (p *Pipeline) finishRun(ctx context.Context, r *run, start time.Time, err error) (*Result, error) {
	r.result.Duration = time.Since(start)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		p.logRunError(ctx, err)
		return r.result, err
	}

	p.logRunComplete(ctx, r.result)
	return r.result, nil
}
