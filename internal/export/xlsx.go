package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/inventura/internal/model"
)

// FormatXLSX serializes records into a single-sheet spreadsheet with the
// same columns and timestamp rendering as the CSV export.
func FormatXLSX(records []model.Record, header []string) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}

	row := 2
	for _, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("computing cell name: %w", err)
		}
		values := []interface{}{
			r.Code,
			r.Location,
			r.Quantity,
			r.CreatedAt.Local().Format(timeLayout),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
