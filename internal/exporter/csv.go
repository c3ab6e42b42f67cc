package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sentimentcli/internal/dataprocessing"
	apperrors "sentimentcli/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV replaces filePath with the given header and records. The content is
// written to a temporary file in the same directory and renamed into place, so an
// interrupted write never leaves a partial file behind.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary file", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if options.BOMPrefix {
		if _, err := tmp.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(tmp)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush csv", err)
	}

	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close temporary file", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return apperrors.NewStorageError("failed to set file mode", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to replace %s", filePath), err)
	}
	committed = true

	return nil
}

// WriteTable writes a table with its header row and no index column.
func (w *CSVWriter) WriteTable(filePath string, table *dataprocessing.Table, bom bool) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   table.Columns,
		Records:   table.Rows,
		BOMPrefix: bom,
	})
}
