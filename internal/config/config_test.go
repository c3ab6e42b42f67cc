package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars or file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultTradesFile, cfg.Input.TradesFile)
				assert.Equal(t, DefaultSentimentFile, cfg.Input.SentimentFile)
				assert.Equal(t, "UTC", cfg.Input.Timezone)
				assert.Empty(t, cfg.Input.TimeLayouts)

				assert.Equal(t, DefaultMergedFile, cfg.Output.MergedFile)
				assert.Empty(t, cfg.Output.WorkbookFile)
				assert.Empty(t, cfg.Output.MetricsFile)
				assert.False(t, cfg.Output.BOMPrefix)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
			},
		},
		{
			name: "env vars override defaults",
			env: map[string]string{
				"SENTIMENT_INPUT_TRADES_FILE":    "data/trades.csv",
				"SENTIMENT_INPUT_TIME_LAYOUTS":   "2006-01-02T15:04,02/01/2006",
				"SENTIMENT_OUTPUT_WORKBOOK_FILE": "out/report.xlsx",
				"SENTIMENT_LOGGING_LEVEL":        "DEBUG",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data/trades.csv", cfg.Input.TradesFile)
				assert.Equal(t, []string{"2006-01-02T15:04", "02/01/2006"}, cfg.Input.TimeLayouts)
				assert.Equal(t, "out/report.xlsx", cfg.Output.WorkbookFile)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file values replace defaults",
			fileContent: `
input:
  sentiment_file: sentiment/fear_greed.xlsx
  timezone: Asia/Kolkata
output:
  metrics_file: metrics/run.prom
  bom_prefix: true
telemetry:
  trace_exporter: file
  trace_file: traces.json
  sample_ratio: 0.5
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sentiment/fear_greed.xlsx", cfg.Input.SentimentFile)
				assert.Equal(t, "Asia/Kolkata", cfg.Input.Timezone)
				assert.Equal(t, "metrics/run.prom", cfg.Output.MetricsFile)
				assert.True(t, cfg.Output.BOMPrefix)
				assert.Equal(t, "file", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "traces.json", cfg.Telemetry.TraceFile)
				assert.Equal(t, 0.5, cfg.Telemetry.SampleRatio)

				assert.Equal(t, DefaultTradesFile, cfg.Input.TradesFile)
			},
		},
		{
			name: "env wins over file",
			env: map[string]string{
				"SENTIMENT_OUTPUT_MERGED_FILE": "from-env.csv",
			},
			fileContent: `
output:
  merged_file: from-file.csv
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env.csv", cfg.Output.MergedFile)
			},
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"SENTIMENT_LOGGING_LEVEL": "verbose",
			},
			wantErr: true,
		},
		{
			name: "file trace exporter requires trace file",
			env: map[string]string{
				"SENTIMENT_TELEMETRY_TRACE_EXPORTER": "file",
			},
			wantErr: true,
		},
		{
			name: "sample ratio out of range",
			env: map[string]string{
				"SENTIMENT_TELEMETRY_SAMPLE_RATIO": "1.5",
			},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "input: [unclosed",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var configFile string
			if tt.fileContent != "" {
				configFile = writeConfigFile(t, tt.fileContent)
			}

			cfg, err := LoadFrom(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTradesFile, cfg.Input.TradesFile)
	assert.Equal(t, DefaultMergedFile, cfg.Output.MergedFile)
	assert.Equal(t, AppName, cfg.Telemetry.ServiceName)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "missing trades file", mutate: func(c *Config) { c.Input.TradesFile = "" }, wantErr: true},
		{name: "missing merged file", mutate: func(c *Config) { c.Output.MergedFile = "" }, wantErr: true},
		{name: "unknown log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }, wantErr: true},
		{name: "file output without path", mutate: func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, wantErr: true},
		{name: "uppercase level normalized", mutate: func(c *Config) { c.Logging.Level = "WARN" }},
		{name: "unknown trace exporter", mutate: func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
