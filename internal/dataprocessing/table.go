package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "sentimentcli/internal/errors"
)

// utf8BOM is the byte order mark some spreadsheet tools prepend to CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is an in-memory rectangular table of string cells. Every row has exactly
// len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// Load reads a table from path. Files ending in .xlsx are read from their first
// sheet; anything else is treated as CSV.
func Load(path string) (*Table, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(path, name)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	table, err := ReadCSV(file, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}

// ReadCSV parses CSV content with a header row. Rows are padded or truncated to the
// header width and fully blank lines are skipped.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read csv content", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("malformed csv", err)
	}

	return buildTable(name, records)
}

// loadWorkbook reads the first sheet of an Excel workbook.
func loadWorkbook(path, name string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err)
	}

	// Leading blank rows are common above the header in exported sheets
	for len(rows) > 0 && isBlankRow(rows[0]) {
		rows = rows[1:]
	}

	return buildTable(name, rows)
}

func buildTable(name string, records [][]string) (*Table, error) {
	if len(records) == 0 || isBlankRow(records[0]) {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no header row", name), nil).
			WithContext("table", name)
	}

	columns := uniqueColumns(records[0])
	width := len(columns)

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlankRow(record) {
			continue
		}
		row := make([]string, width)
		copy(row, record)
		rows = append(rows, row)
	}

	return &Table{Name: name, Columns: columns, Rows: rows}, nil
}

// uniqueColumns cleans header cells and disambiguates repeats as "name.1", "name.2".
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, raw := range header {
		base := CleanColumnName(raw)
		col := base
		for n := 1; used[col]; n++ {
			col = base + "." + strconv.Itoa(n)
		}
		used[col] = true
		columns[i] = col
	}
	return columns
}

// CleanColumnName removes surrounding whitespace, byte order marks and zero-width
// characters from a header cell.
func CleanColumnName(col string) string {
	clean := strings.TrimSpace(col)
	clean = strings.TrimPrefix(clean, "\ufeff")
	clean = strings.Map(func(r rune) rune {
		switch r {
		case '\u200B', '\u200C', '\u200D', '\u2060', '\uFEFF':
			return -1
		}
		return r
	}, clean)
	return strings.TrimSpace(clean)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
