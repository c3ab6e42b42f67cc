package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SENTIMENT"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the two source tables.
type InputConfig struct {
	TradesFile    string   `yaml:"trades_file" envconfig:"TRADES_FILE" default:"historical_trader_data.csv" validate:"required"`
	SentimentFile string   `yaml:"sentiment_file" envconfig:"SENTIMENT_FILE" default:"fear_greed_index.csv" validate:"required"`
	TimeLayouts   []string `yaml:"time_layouts" envconfig:"TIME_LAYOUTS"`
	Timezone      string   `yaml:"timezone" envconfig:"TIMEZONE" default:"UTC" validate:"required"`
}

// OutputConfig describes the artifacts written by a run.
// Empty WorkbookFile or MetricsFile disables that artifact.
type OutputConfig struct {
	MergedFile   string `yaml:"merged_file" envconfig:"MERGED_FILE" default:"merged_trader_sentiment_data.csv" validate:"required"`
	WorkbookFile string `yaml:"workbook_file" envconfig:"WORKBOOK_FILE"`
	MetricsFile  string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	BOMPrefix    bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX" default:"false"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/sentiment-report.log"`
}

// TelemetryConfig controls span export.
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"sentiment-report" validate:"required"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout file"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=TraceExporter file"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from environment variables overlaid on the YAML file at
// configFile. An empty configFile means environment and defaults only.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. A value set explicitly in the
// environment wins; otherwise a non-zero file value replaces the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pickString(&envConfig.Input.TradesFile, fileConfig.Input.TradesFile, "INPUT_TRADES_FILE")
	pickString(&envConfig.Input.SentimentFile, fileConfig.Input.SentimentFile, "INPUT_SENTIMENT_FILE")
	pickString(&envConfig.Input.Timezone, fileConfig.Input.Timezone, "INPUT_TIMEZONE")
	if !envSet("INPUT_TIME_LAYOUTS") && len(fileConfig.Input.TimeLayouts) > 0 {
		envConfig.Input.TimeLayouts = fileConfig.Input.TimeLayouts
	}

	pickString(&envConfig.Output.MergedFile, fileConfig.Output.MergedFile, "OUTPUT_MERGED_FILE")
	pickString(&envConfig.Output.WorkbookFile, fileConfig.Output.WorkbookFile, "OUTPUT_WORKBOOK_FILE")
	pickString(&envConfig.Output.MetricsFile, fileConfig.Output.MetricsFile, "OUTPUT_METRICS_FILE")
	if !envSet("OUTPUT_BOM_PREFIX") && fileConfig.Output.BOMPrefix {
		envConfig.Output.BOMPrefix = true
	}

	pickString(&envConfig.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	pickString(&envConfig.Logging.Format, fileConfig.Logging.Format, "LOGGING_FORMAT")
	pickString(&envConfig.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	pickString(&envConfig.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")

	pickString(&envConfig.Telemetry.ServiceName, fileConfig.Telemetry.ServiceName, "TELEMETRY_SERVICE_NAME")
	pickString(&envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER")
	pickString(&envConfig.Telemetry.TraceFile, fileConfig.Telemetry.TraceFile, "TELEMETRY_TRACE_FILE")
	if !envSet("TELEMETRY_SAMPLE_RATIO") && fileConfig.Telemetry.SampleRatio != 0 {
		envConfig.Telemetry.SampleRatio = fileConfig.Telemetry.SampleRatio
	}

	return envConfig
}

func pickString(dst *string, fileValue, key string) {
	if fileValue != "" && !envSet(key) {
		*dst = fileValue
	}
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required for output %q", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			TradesFile:    DefaultTradesFile,
			SentimentFile: DefaultSentimentFile,
			Timezone:      "UTC",
		},
		Output: OutputConfig{
			MergedFile: DefaultMergedFile,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/sentiment-report.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
			SampleRatio:   1,
		},
	}
}
