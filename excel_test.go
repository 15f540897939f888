package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates a temporary xlsx with the given header and rows.
func writeWorkbook(t *testing.T, header []any, rows ...[]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRows(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"ID", "SKU", "Name", "Extra"},
		[]any{1, "ABC123", "Widget", "ignored"},
		[]any{2, "DEF456", "Gadget", "ignored"},
	)

	reader := NewExcelReader(path, []string{"ID", "SKU", "Name"})
	records, err := reader.ReadRows()
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("ReadRows() returned %d records, want 2", len(records))
	}
	if records[0]["SKU"] != "ABC123" || records[1]["SKU"] != "DEF456" {
		t.Errorf("records = %v, want SKU values in order", records)
	}
	if records[0]["ID"] != "1" {
		t.Errorf("ID = %q, want formatted cell text %q", records[0]["ID"], "1")
	}
	if _, ok := records[0]["Extra"]; ok {
		t.Error("records should carry exactly the configured columns")
	}
}

func TestReadRowsFileNotFound(t *testing.T) {
	reader := NewExcelReader(filepath.Join(t.TempDir(), "nope.xlsx"), []string{"ID"})

	_, err := reader.ReadRows()

	var notFound *FileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ReadRows() error = %v, want *FileNotFoundError", err)
	}
}

func TestReadRowsMissingColumns(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"ID", "SKU"},
		[]any{1, "ABC123"},
	)

	reader := NewExcelReader(path, []string{"ID", "SKU", "Name", "Category"})
	_, err := reader.ReadRows()

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("ReadRows() error = %v, want *MissingColumnsError", err)
	}
	if len(missing.Columns) != 2 {
		t.Errorf("MissingColumnsError.Columns = %v, want both absent columns named", missing.Columns)
	}
}

func TestReadRowsSkipsBlankRows(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"ID", "SKU"},
		[]any{1, "ABC123"},
		[]any{"", ""},
		[]any{2, "DEF456"},
	)

	reader := NewExcelReader(path, []string{"ID", "SKU"})
	records, err := reader.ReadRows()
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("ReadRows() returned %d records, want 2 (blank row skipped)", len(records))
	}
}

func TestReadRowsShortRow(t *testing.T) {
	path := writeWorkbook(t,
		[]any{"ID", "SKU", "Name"},
		[]any{1, "ABC123"}, // Name cell missing entirely
	)

	reader := NewExcelReader(path, []string{"ID", "SKU", "Name"})
	records, err := reader.ReadRows()
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if records[0]["Name"] != "" {
		t.Errorf("Name = %q, want empty string for a missing cell", records[0]["Name"])
	}
}

func TestValidateRows(t *testing.T) {
	if err := ValidateRows(nil, []string{"ID"}); err == nil {
		t.Error("ValidateRows() should fail with no data rows")
	}

	records := []RowRecord{{"ID": "1", "SKU": ""}}
	if err := ValidateRows(records, []string{"ID", "SKU"}); err != nil {
		t.Errorf("ValidateRows() error = %v, blank cells should only warn", err)
	}
}
