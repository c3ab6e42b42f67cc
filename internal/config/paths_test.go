package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	base := t.TempDir()

	t.Run("relative paths resolve against base dir", func(t *testing.T) {
		cfg := Default()
		cfg.Output.WorkbookFile = "reports/sentiment.xlsx"

		paths, err := GetPaths(cfg, base)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(base, DefaultTradesFile), paths.TradesFile)
		assert.Equal(t, filepath.Join(base, DefaultSentimentFile), paths.SentimentFile)
		assert.Equal(t, filepath.Join(base, DefaultMergedFile), paths.MergedFile)
		assert.Equal(t, filepath.Join(base, "reports", "sentiment.xlsx"), paths.WorkbookFile)
	})

	t.Run("absolute paths are kept", func(t *testing.T) {
		cfg := Default()
		abs := filepath.Join(base, "elsewhere", "trades.csv")
		cfg.Input.TradesFile = abs

		paths, err := GetPaths(cfg, base)
		require.NoError(t, err)

		assert.Equal(t, abs, paths.TradesFile)
	})

	t.Run("disabled outputs stay empty", func(t *testing.T) {
		paths, err := GetPaths(Default(), base)
		require.NoError(t, err)

		assert.Empty(t, paths.WorkbookFile)
		assert.Empty(t, paths.MetricsFile)
		assert.Empty(t, paths.TraceFile)
		assert.Empty(t, paths.LogFile)
	})

	t.Run("log file resolved when logging to file", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "both"

		paths, err := GetPaths(cfg, base)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(base, "logs", "sentiment-report.log"), paths.LogFile)
	})

	t.Run("empty base dir uses working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		paths, err := GetPaths(Default(), "")
		require.NoError(t, err)

		assert.Equal(t, wd, paths.BaseDir)
	})
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Output.MergedFile = "out/merged.csv"
	cfg.Output.MetricsFile = "metrics/run.prom"

	paths, err := GetPaths(cfg, base)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, filepath.Join(base, "out"))
	assert.DirExists(t, filepath.Join(base, "metrics"))
}

func TestPaths_ValidateRequiredFiles(t *testing.T) {
	base := t.TempDir()
	paths, err := GetPaths(Default(), base)
	require.NoError(t, err)

	err = paths.ValidateRequiredFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trades")
	assert.Contains(t, err.Error(), "Sentiment")

	require.NoError(t, os.WriteFile(paths.TradesFile, []byte("Timestamp\n"), 0644))
	err = paths.ValidateRequiredFiles()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Trades")

	require.NoError(t, os.WriteFile(paths.SentimentFile, []byte("date\n"), 0644))
	assert.NoError(t, paths.ValidateRequiredFiles())
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.csv")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent.csv")))
}
