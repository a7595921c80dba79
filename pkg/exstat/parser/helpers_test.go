package parser

import (
	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

// blankSheet returns a rows x cols sheet filled with empty strings.
func blankSheet(name string, rows, cols int) *models.Sheet {
	grid := make([][]any, rows)
	for r := range grid {
		grid[r] = make([]any, cols)
		for c := range grid[r] {
			grid[r][c] = ""
		}
	}
	return models.NewSheet(name, grid)
}

func put(s *models.Sheet, r, c int, v any) {
	s.Rows[r][c] = v
}

func mustSchema(d lexicon.Domain) lexicon.Schema {
	s, ok := lexicon.For(d)
	if !ok {
		panic("unknown domain " + string(d))
	}
	return s
}

func value(rec models.Record, field string) any {
	if v, ok := rec.Get(field); ok {
		return v
	}
	return nil
}
