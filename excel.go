package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FileNotFoundError reports a workbook path that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("Excel file not found at %s", e.Path)
}

// MissingColumnsError lists configured columns absent from the header row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns in Excel file: %s", strings.Join(e.Columns, ", "))
}

// ExcelReader reads row records from a workbook's first sheet. The first
// row is the header; rows carry exactly the configured columns.
type ExcelReader struct {
	FilePath string
	Columns  []string
}

// NewExcelReader creates a reader for the given workbook and column set.
func NewExcelReader(filePath string, columns []string) *ExcelReader {
	return &ExcelReader{FilePath: filePath, Columns: columns}
}

// ReadRows loads every data row, verifying all configured columns exist.
func (r *ExcelReader) ReadRows() ([]RowRecord, error) {
	if _, err := os.Stat(r.FilePath); os.IsNotExist(err) {
		return nil, &FileNotFoundError{Path: r.FilePath}
	}

	f, err := excelize.OpenFile(r.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", r.FilePath, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range r.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	records := make([]RowRecord, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		record := make(RowRecord, len(r.Columns))
		empty := true
		for _, col := range r.Columns {
			var value string
			if i := index[col]; i < len(cells) {
				value = strings.TrimSpace(cells[i])
			}
			if value != "" {
				empty = false
			}
			record[col] = value
		}
		// Trailing blank rows are common in hand-edited workbooks.
		if empty {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// ValidateRows requires at least one data row and warns about blank
// cells. Blank cells are not fatal here; URLBuilder fails the row later
// if a placeholder needs the value.
func ValidateRows(records []RowRecord, columns []string) error {
	if len(records) == 0 {
		return fmt.Errorf("no data found in Excel file")
	}
	for i, record := range records {
		for _, col := range columns {
			if record[col] == "" {
				log.Printf("Warning: missing value in row %d, column %q", i+1, col)
			}
		}
	}
	return nil
}
