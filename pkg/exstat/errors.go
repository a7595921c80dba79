package exstat

import (
	"errors"
	"fmt"
)

// ErrUnknownDomain indicates a domain with no schema.
var ErrUnknownDomain = errors.New("unknown domain")

// Components named in an ExtractionError.
const (
	// ComponentSettlement is the single-entity settlement card extractor.
	ComponentSettlement = "settlement"
	// ComponentList is the header-driven list extractor used for
	// migration and population sheets.
	ComponentList = "list"
)

// ExtractionError reports a sheet whose extraction panicked. The sheet
// contributes no records; the rest of the workbook is unaffected.
type ExtractionError struct {
	SheetName string
	// Component is ComponentSettlement or ComponentList.
	Component string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("sheet %q: %s extractor: %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
