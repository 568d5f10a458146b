// Package tableio loads point tables from spreadsheet and CSV files on
// behalf of callers. The core pipeline never parses raw files itself;
// these readers are the caller-side glue that turns a file into the
// parsed table the pipeline expects.
package tableio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"route-surface-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ReadFile loads a table, picking the reader from the file extension
// (.xlsx or .csv).
func ReadFile(path string) (domain.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return domain.Table{}, fmt.Errorf("read table %q: unsupported file extension", path)
	}
}

// ReadXLSX loads the first sheet of a workbook. The first row is the
// header; remaining rows become string cells.
func ReadXLSX(path string) (domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read xlsx %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Table{}, fmt.Errorf("read xlsx %q: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Table{}, fmt.Errorf("read xlsx %q: sheet %q: %w", path, sheets[0], err)
	}

	return tableFromRows(path, rows)
}

// ReadCSV loads a comma-separated file. The first record is the header.
func ReadCSV(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read csv %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // header decides; short rows are tolerated

	records, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("read csv %q: %w", path, err)
	}

	return tableFromRows(path, records)
}

func tableFromRows(path string, rows [][]string) (domain.Table, error) {
	if len(rows) == 0 {
		return domain.Table{}, fmt.Errorf("read table %q: file is empty", path)
	}

	table := domain.Table{
		Columns: rows[0],
		Rows:    rows[1:],
	}

	if len(table.Columns) == 0 {
		return domain.Table{}, fmt.Errorf("read table %q: header row is empty", path)
	}

	return table, nil
}
