package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

// Admit decides whether a sheet is worth extracting. When it is not, the
// returned reason says why.
func Admit(sheet *models.Sheet, p Params) (bool, string) {
	name := strings.ToLower(sheet.Name)
	for _, deny := range p.SheetDenylist {
		if deny != "" && strings.Contains(name, strings.ToLower(deny)) {
			return false, fmt.Sprintf("sheet name matches %q", deny)
		}
	}
	if n := sheet.NumRows(); n < p.MinSheetRows {
		return false, fmt.Sprintf("only %d rows", n)
	}
	if n := countNonEmptyCells(sheet, 0, sheet.NumRows()-1, 0, maxRowLen(sheet)-1); n < p.MinNonemptyCells {
		return false, fmt.Sprintf("only %d non-empty cells", n)
	}
	return true, ""
}
