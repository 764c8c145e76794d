package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/inventura/internal/model"
)

func testRecords() []model.Record {
	base := time.Date(2026, 8, 30, 14, 5, 42, 0, time.Local)
	return []model.Record{
		{ID: 2, Code: "SKU456", Location: "Shelf B", Quantity: 2, CreatedAt: base.Add(time.Minute)},
		{ID: 1, Code: "SKU123", Location: "Shelf A", Quantity: 5, CreatedAt: base},
	}
}

func TestFormatCSVEmpty(t *testing.T) {
	if _, err := FormatCSV(nil, Header); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestFormatCSV(t *testing.T) {
	out, err := FormatCSV(testRecords(), Header)
	if err != nil {
		t.Fatalf("FormatCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Code,Location,Quantity,Timestamp" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// Order is preserved, seconds are discarded.
	if lines[1] != "SKU456,Shelf B,2,2026-08-30 14:06" {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if lines[2] != "SKU123,Shelf A,5,2026-08-30 14:05" {
		t.Errorf("unexpected second row: %q", lines[2])
	}
}

func TestFormatCSVLineCount(t *testing.T) {
	records := make([]model.Record, 7)
	for i := range records {
		records[i] = model.Record{Code: "c", Location: "l", Quantity: 1, CreatedAt: time.Now()}
	}

	out, err := FormatCSV(records, Header)
	if err != nil {
		t.Fatalf("FormatCSV: %v", err)
	}
	if got := strings.Count(out, "\n"); got != len(records)+1 {
		t.Errorf("expected %d lines, got %d", len(records)+1, got)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	if got := Filename("", "csv", now); got != "inventura_all.csv" {
		t.Errorf("unexpected full export name: %q", got)
	}
	if got := Filename("Shelf A", "csv", now); got != "inventura_2608_Shelf A.csv" {
		t.Errorf("unexpected per-location name: %q", got)
	}
	if got := Filename("Shelf A", "xlsx", now); got != "inventura_2608_Shelf A.xlsx" {
		t.Errorf("unexpected xlsx name: %q", got)
	}
}

func TestFormatXLSX(t *testing.T) {
	data, err := FormatXLSX(testRecords(), Header)
	if err != nil {
		t.Fatalf("FormatXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Code" || rows[0][3] != "Timestamp" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "SKU456" || rows[1][2] != "2" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
}

func TestFormatXLSXEmpty(t *testing.T) {
	if _, err := FormatXLSX(nil, Header); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
