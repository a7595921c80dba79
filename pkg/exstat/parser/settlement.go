package parser

import (
	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

// ExtractSettlement reads one settlement card: a sheet describing a single
// area. The area comes from the sheet name, or from source when the sheet
// name carries no prefecture. Each field takes the first number to the
// right of the first keyword cell that passes its guards.
//
// It reports false when the area is unknown or no field matched.
func ExtractSettlement(sheet *models.Sheet, schema lexicon.Schema, fiscalYear int, source string, p Params) (models.Record, bool) {
	pref, ok := NormalizePrefecture(sheet.Name)
	if !ok {
		pref, ok = NormalizePrefecture(source)
	}
	if !ok {
		return models.Record{}, false
	}

	rec := models.NewRecord(fiscalYear, source, sheet.Name, schema.FieldNames())
	rec.Prefecture = pref

	grid := textGrid(sheet.Rows)
	for _, m := range compileSchema(schema, false, p.ShortKeywordLen) {
		if v, ok := scanField(sheet, grid, m, p); ok {
			rec.Set(m.spec.Name, v)
		}
	}
	if !rec.HasData() {
		return models.Record{}, false
	}
	return rec, true
}

// scanField walks the grid in row-major order for a keyword cell of m and
// searches rightwards from it for an acceptable number.
func scanField(sheet *models.Sheet, grid [][]string, m matcher, p Params) (float64, bool) {
	for r, row := range grid {
		for c, text := range row {
			if !m.inColumnBound(c) {
				break
			}
			if text == "" {
				continue
			}
			if _, ok := m.match(text); !ok || !labelAllowed(m.spec.Kind, text, p.RatioMarkers) {
				continue
			}
			end := min(c+p.Lookahead, len(row)-1)
			for nc := c + 1; nc <= end && m.inColumnBound(nc); nc++ {
				v, ok := ParseNumber(sheet.Cell(r, nc))
				if !ok || !valueAllowed(m.spec.Kind, v, p.SettlementPopulationFloor) {
					continue
				}
				return v, true
			}
		}
	}
	return 0, false
}
