package models

import "fmt"

// Sheet is a ragged grid of raw cell values.
// Rows and columns are 0-based. A cell holds a string, a Go numeric value,
// or nil.
type Sheet struct {
	// Name is the sheet (tab) name.
	Name string
	// Rows holds the raw cell values; rows may differ in length.
	Rows [][]any
}

// NewSheet creates a sheet from rows.
func NewSheet(name string, rows [][]any) *Sheet {
	return &Sheet{Name: name, Rows: rows}
}

// NumRows returns the number of rows, including blank ones.
func (s *Sheet) NumRows() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// RowLen returns the length of row r, or 0 when r is out of range.
func (s *Sheet) RowLen(r int) int {
	if s == nil || r < 0 || r >= len(s.Rows) {
		return 0
	}
	return len(s.Rows[r])
}

// Cell returns the raw value at (r, c). Out-of-range coordinates yield "".
func (s *Sheet) Cell(r, c int) any {
	if c < 0 || c >= s.RowLen(r) {
		return ""
	}
	if v := s.Rows[r][c]; v != nil {
		return v
	}
	return ""
}

// Text returns the cell value formatted as a string.
func (s *Sheet) Text(r, c int) string {
	switch v := s.Cell(r, c).(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
