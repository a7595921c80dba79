// Package models defines data structures for statistics extraction.
package models

// Workbook is an ordered set of named sheets as loaded from one input file.
type Workbook struct {
	// Name is the workbook file name (no path).
	Name string
	// Sheets keeps the sheets in workbook order.
	Sheets []*Sheet
}

// NewWorkbook creates a workbook from sheets, preserving their order.
func NewWorkbook(name string, sheets ...*Sheet) *Workbook {
	return &Workbook{Name: name, Sheets: sheets}
}

// SheetNames returns the sheet names in workbook order. Nil sheets are
// skipped.
func (w *Workbook) SheetNames() []string {
	if w == nil {
		return nil
	}
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		if s != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

// Sheet returns the first sheet with the given name, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	if w == nil {
		return nil
	}
	for _, s := range w.Sheets {
		if s != nil && s.Name == name {
			return s
		}
	}
	return nil
}
