package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"sentimentcli/internal/config"
	apperrors "sentimentcli/internal/errors"
	"sentimentcli/internal/exporter"
	"sentimentcli/internal/infrastructure"
	"sentimentcli/internal/operations"
)

// options holds the command line flags. Non-empty values override config.
type options struct {
	configFile string
	baseDir    string
	trades     string
	sentiment  string
	out        string
	workbook   string
	metrics    string
	timezone   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to config.yaml or configs/config.yaml when present)")
	fs.StringVar(&opts.baseDir, "dir", "", "base directory for relative paths (defaults to the working directory)")
	fs.StringVar(&opts.trades, "trades", "", "trader history table (.csv or .xlsx)")
	fs.StringVar(&opts.sentiment, "sentiment", "", "fear/greed index table (.csv or .xlsx)")
	fs.StringVar(&opts.out, "out", "", "merged CSV output file")
	fs.StringVar(&opts.workbook, "workbook", "", "optional XLSX analysis workbook output file")
	fs.StringVar(&opts.metrics, "metrics", "", "optional prometheus textfile output")
	fs.StringVar(&opts.timezone, "tz", "", "time zone for timestamps without an offset")
	err := fs.Parse(args)
	return opts, err
}

// loadConfig loads the configuration and applies flag overrides
func loadConfig(opts options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&cfg.Input.TradesFile, opts.trades)
	override(&cfg.Input.SentimentFile, opts.sentiment)
	override(&cfg.Input.Timezone, opts.timezone)
	override(&cfg.Output.MergedFile, opts.out)
	override(&cfg.Output.WorkbookFile, opts.workbook)
	override(&cfg.Output.MetricsFile, opts.metrics)

	return cfg, nil
}

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	// Console logs go to stderr so stdout carries only the report
	logger, err := infrastructure.InitializeLogger(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, cfg, opts.baseDir, logger, os.Stdout, os.Stderr)
}

// run executes one report and returns the process exit code
func run(ctx context.Context, cfg *config.Config, baseDir string, logger *slog.Logger, stdout, stderr io.Writer) int {
	paths, err := config.GetPaths(cfg, baseDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	paths.LogPathResolution(logger)

	if err := paths.ValidateRequiredFiles(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, paths.TraceFile, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(tel.Meter)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create metrics: %v\n", err)
		return 1
	}

	pipeline := operations.NewPipeline(
		operations.WithLogger(logger),
		operations.WithTracer(tel.Tracer),
		operations.WithMetrics(metrics, tel),
	)

	ctx = infrastructure.WithTraceID(ctx, infrastructure.GenerateRunID())
	result, err := pipeline.Run(ctx, operations.Request{
		TradesFile:    paths.TradesFile,
		SentimentFile: paths.SentimentFile,
		MergedFile:    paths.MergedFile,
		WorkbookFile:  paths.WorkbookFile,
		MetricsFile:   paths.MetricsFile,
		BOMPrefix:     cfg.Output.BOMPrefix,
		TimeLayouts:   cfg.Input.TimeLayouts,
		Timezone:      cfg.Input.Timezone,
	})
	if err != nil {
		reportError(stderr, err)
		return 1
	}

	if err := exporter.WriteSummary(stdout, result.Report); err != nil {
		fmt.Fprintf(stderr, "Error: failed to print summary: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "\nMerged %d trades (%d without prior sentiment) into %s\n",
		result.Merged.Len(), result.Join.Unmatched, paths.MergedFile)
	if paths.WorkbookFile != "" {
		fmt.Fprintf(stdout, "Analysis workbook written to %s\n", paths.WorkbookFile)
	}
	return 0
}

func reportError(w io.Writer, err error) {
	if apperrors.IsMissingColumn(err) {
		fmt.Fprintf(w, "Error: required %s column not found, no output written\n  %v\n",
			apperrors.MissingRole(err), err)
		return
	}
	if step := operations.FailedStep(err); step != "" {
		fmt.Fprintf(w, "Error: %s step failed: %v\n", step, err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
