package parser

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

// fingerprintCols caps how many columns feed the layout fingerprint.
const fingerprintCols = 64

// LayoutProfile summarizes the shape of a sheet. Sheets from the same
// publication template share a fingerprint, which helps group layouts that
// need new keywords or guards.
type LayoutProfile struct {
	// Range is the bounding box of non-empty cells (e.g. "A1:D10").
	Range string
	// NonEmpty is the number of non-empty cells.
	NonEmpty int
	// Density is NonEmpty over the bounding box area.
	Density float64
	// Fingerprint hashes the occupancy pattern of the leading rows.
	Fingerprint string
}

// Profile computes the layout profile of a sheet.
func Profile(sheet *models.Sheet, p Params) LayoutProfile {
	var lp LayoutProfile
	minRow, maxRow, minCol, maxCol := findDataBounds(sheet)
	if minRow >= 0 {
		lp.NonEmpty = countNonEmptyCells(sheet, minRow, maxRow, minCol, maxCol)
		total := (maxRow - minRow + 1) * (maxCol - minCol + 1)
		lp.Density = float64(lp.NonEmpty) / float64(total)

		startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
		endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
		lp.Range = fmt.Sprintf("%s:%s", startCell, endCell)
	}
	lp.Fingerprint = fingerprint(sheet, p.FingerprintRows)
	return lp
}

// fingerprint encodes each leading cell as number, text or blank and hashes
// the pattern. Trailing blanks in a row do not contribute.
func fingerprint(sheet *models.Sheet, rows int) string {
	var b strings.Builder
	for r := 0; r < min(rows, sheet.NumRows()); r++ {
		var line []byte
		for c := 0; c < min(sheet.RowLen(r), fingerprintCols); c++ {
			line = append(line, cellClass(sheet.Cell(r, c)))
		}
		b.WriteString(strings.TrimRight(string(line), "."))
		b.WriteByte('\n')
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

func cellClass(v any) byte {
	if CellText(v) == "" {
		return '.'
	}
	if _, ok := ParseNumber(v); ok {
		return '#'
	}
	return 'a'
}

// findDataBounds finds the bounding box of non-empty cells.
// All four results are -1 for an empty sheet.
func findDataBounds(sheet *models.Sheet) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx := 0; rowIdx < sheet.NumRows(); rowIdx++ {
		for colIdx := 0; colIdx < sheet.RowLen(rowIdx); colIdx++ {
			if CellText(sheet.Cell(rowIdx, colIdx)) == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(sheet *models.Sheet, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := max(minRow, 0); rowIdx <= maxRow && rowIdx < sheet.NumRows(); rowIdx++ {
		for colIdx := max(minCol, 0); colIdx <= maxCol && colIdx < sheet.RowLen(rowIdx); colIdx++ {
			if CellText(sheet.Cell(rowIdx, colIdx)) != "" {
				count++
			}
		}
	}
	return count
}

func maxRowLen(sheet *models.Sheet) int {
	n := 0
	for r := 0; r < sheet.NumRows(); r++ {
		n = max(n, sheet.RowLen(r))
	}
	return n
}
