package reader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

// OpenXLSX loads every sheet of an xlsx workbook.
func OpenXLSX(path string) (*models.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readSheets(f, filepath.Base(path))
}

// ReadXLSX loads an xlsx workbook from r.
func ReadXLSX(r io.Reader, name string) (*models.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readSheets(f, name)
}

func readSheets(f *excelize.File, name string) (*models.Workbook, error) {
	wb := models.NewWorkbook(name)
	for _, sheetName := range f.GetSheetList() {
		rows, err := ExtractCells(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
		wb.Sheets = append(wb.Sheets, models.NewSheet(sheetName, rows))
	}
	return wb, nil
}

// ExtractCells returns the raw cell values of a sheet as a ragged grid.
// Values are unformatted, so numeric cells carry their stored number rather
// than a display string.
func ExtractCells(f *excelize.File, sheetName string) ([][]any, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	grid := make([][]any, len(rows))
	for rowIdx, row := range rows {
		cells := make([]any, len(row))
		for colIdx, cellValue := range row {
			cells[colIdx] = cellValue
		}
		grid[rowIdx] = cells
	}
	return grid, nil
}
