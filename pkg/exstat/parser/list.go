package parser

import (
	"sort"

	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

// HeaderMatch is the header cell a field was assigned to.
type HeaderMatch struct {
	Field   string
	Row     int
	Col     int
	Keyword string
	Mode    lexicon.MatchMode
}

// HeaderMap is the finalized result of header discovery on a list sheet.
// It is not modified after DiscoverHeaders returns.
type HeaderMap struct {
	// Matches holds the assigned header cells in schema order.
	Matches []HeaderMatch
	// HeaderRow is the lowest row holding an assigned header, or -1.
	HeaderRow int
}

// Column returns the data column of field.
func (h HeaderMap) Column(field string) (int, bool) {
	for _, m := range h.Matches {
		if m.Field == field {
			return m.Col, true
		}
	}
	return 0, false
}

// Empty reports whether no field was located.
func (h HeaderMap) Empty() bool {
	return len(h.Matches) == 0
}

type headerCandidate struct {
	field   int
	row     int
	col     int
	keyword compiledKeyword
	guarded bool
}

// outranks orders candidates for column assignment: the longer keyword
// wins, then exact over contains, then guarded over unguarded, then the
// earlier cell, then schema order.
func (a headerCandidate) outranks(b headerCandidate) bool {
	if a.keyword.runes != b.keyword.runes {
		return a.keyword.runes > b.keyword.runes
	}
	if ae, be := a.keyword.mode == lexicon.MatchExact, b.keyword.mode == lexicon.MatchExact; ae != be {
		return ae
	}
	if a.guarded != b.guarded {
		return a.guarded
	}
	if a.row != b.row {
		return a.row < b.row
	}
	if a.col != b.col {
		return a.col < b.col
	}
	return a.field < b.field
}

// DiscoverHeaders locates the data column of each schema field in the
// leading rows of a list sheet.
//
// Every keyword hit in the scan window is collected first. Hits are then
// assigned in rank order; a field keeps the first column it is given and a
// column belongs to at most one field.
func DiscoverHeaders(sheet *models.Sheet, schema lexicon.Schema, p Params) HeaderMap {
	matchers := compileSchema(schema, true, p.ShortKeywordLen)

	var cands []headerCandidate
	rows := min(p.HeaderScanRows, sheet.NumRows())
	for r := 0; r < rows; r++ {
		for c := max(p.DataColumnOffset, 0); c < sheet.RowLen(r); c++ {
			text := CellText(sheet.Cell(r, c))
			if text == "" {
				continue
			}
			for fi, m := range matchers {
				if !m.inColumnBound(c) {
					continue
				}
				kw, ok := m.match(text)
				if !ok || !labelAllowed(m.spec.Kind, text, p.RatioMarkers) {
					continue
				}
				cands = append(cands, headerCandidate{
					field:   fi,
					row:     r,
					col:     c,
					keyword: kw,
					guarded: m.spec.Kind == lexicon.KindRatio,
				})
			}
		}
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].outranks(cands[j]) })

	assigned := make(map[int]headerCandidate, len(matchers))
	claimed := make(map[int]bool)
	for _, cand := range cands {
		if _, done := assigned[cand.field]; done || claimed[cand.col] {
			continue
		}
		assigned[cand.field] = cand
		claimed[cand.col] = true
	}

	h := HeaderMap{HeaderRow: -1}
	for fi, m := range matchers {
		cand, ok := assigned[fi]
		if !ok {
			continue
		}
		h.Matches = append(h.Matches, HeaderMatch{
			Field:   m.spec.Name,
			Row:     cand.row,
			Col:     cand.col,
			Keyword: cand.keyword.text,
			Mode:    cand.keyword.mode,
		})
		h.HeaderRow = max(h.HeaderRow, cand.row)
	}
	return h
}

// ExtractList reads a list sheet: a header block followed by one row per
// area. Rows whose leading cells resolve to no area are skipped, as are rows
// where every mapped field is empty.
func ExtractList(sheet *models.Sheet, schema lexicon.Schema, fiscalYear int, source string, p Params) []models.Record {
	h := DiscoverHeaders(sheet, schema, p)
	if h.Empty() {
		return nil
	}
	return extractRows(sheet, schema, h, fiscalYear, source, p)
}

func extractRows(sheet *models.Sheet, schema lexicon.Schema, h HeaderMap, fiscalYear int, source string, p Params) []models.Record {
	current, _ := NormalizePrefecture(sheet.Name)
	fields := schema.FieldNames()

	var records []models.Record
	tokens := make([]string, max(p.NameColumns, 0))
	for r := h.HeaderRow + 1; r < sheet.NumRows(); r++ {
		for c := range tokens {
			tokens[c] = sheet.Text(r, c)
		}
		area := Resolve(tokens, schema.Municipalities)

		rec := models.NewRecord(fiscalYear, source, sheet.Name, fields)
		switch area.Kind {
		case AreaPrefecture:
			current = area.Name
			rec.Prefecture = area.Name
			rec.Area = area.Name
		case AreaMunicipality:
			rec.Prefecture = current
			rec.Area = ComposeArea(current, area.Name)
		default:
			continue
		}

		for _, m := range h.Matches {
			spec, _ := schema.Field(m.Field)
			v, ok := ParseNumber(sheet.Cell(r, m.Col))
			if !ok || !valueAllowed(spec.Kind, v, p.ListPopulationFloor) {
				continue
			}
			rec.Set(m.Field, v)
		}
		if rec.HasData() {
			records = append(records, rec)
		}
	}
	return records
}
