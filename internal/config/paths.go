package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains every file location a run touches, resolved to absolute paths.
// Optional outputs are empty when disabled.
type Paths struct {
	BaseDir string

	TradesFile    string
	SentimentFile string

	MergedFile   string
	WorkbookFile string
	MetricsFile  string
	TraceFile    string
	LogFile      string
}

// GetPaths resolves the configured locations against baseDir. An empty baseDir means
// the current working directory.
func GetPaths(cfg *Config, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %v", err)
		}
		baseDir = wd
	}

	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %v", err)
	}

	p := &Paths{BaseDir: baseDir}
	p.TradesFile = p.resolve(cfg.Input.TradesFile)
	p.SentimentFile = p.resolve(cfg.Input.SentimentFile)
	p.MergedFile = p.resolve(cfg.Output.MergedFile)
	p.WorkbookFile = p.resolve(cfg.Output.WorkbookFile)
	p.MetricsFile = p.resolve(cfg.Output.MetricsFile)
	p.TraceFile = p.resolve(cfg.Telemetry.TraceFile)
	if cfg.Logging.Output != "console" {
		p.LogFile = p.resolve(cfg.Logging.FilePath)
	}

	return p, nil
}

// resolve joins a relative path onto the base directory
func (p *Paths) resolve(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.BaseDir, path)
}

// EnsureDirectories creates the parent directory of every enabled output
func (p *Paths) EnsureDirectories() error {
	for _, file := range []string{p.MergedFile, p.WorkbookFile, p.MetricsFile, p.TraceFile, p.LogFile} {
		if file == "" {
			continue
		}
		dir := filepath.Dir(file)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// ValidateRequiredFiles checks that both input tables exist
func (p *Paths) ValidateRequiredFiles() error {
	requiredFiles := []struct{ name, path string }{
		{"Trades", p.TradesFile},
		{"Sentiment", p.SentimentFile},
	}

	var missingFiles []string
	for _, f := range requiredFiles {
		if !FileExists(f.path) {
			missingFiles = append(missingFiles, fmt.Sprintf("%s (%s)", f.name, f.path))
		}
	}

	if len(missingFiles) > 0 {
		return fmt.Errorf("required files missing: %s", strings.Join(missingFiles, ", "))
	}

	return nil
}

// LogPathResolution logs the resolved locations for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.String("base_dir", p.BaseDir),
		slog.Group("inputs",
			slog.String("trades", p.TradesFile),
			slog.String("sentiment", p.SentimentFile),
		),
		slog.Group("outputs",
			slog.String("merged", p.MergedFile),
			slog.String("workbook", p.WorkbookFile),
			slog.String("metrics", p.MetricsFile),
			slog.String("trace", p.TraceFile),
			slog.String("log", p.LogFile),
		))
}
