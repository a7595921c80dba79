// Package parser implements the layout-tolerant field extraction engine:
// cell normalization, area resolution, the settlement (single-entity) and
// list (multi-entity) extractors, sheet admission and de-duplication.
package parser

// Params holds the tunable thresholds of the extraction heuristics.
type Params struct {
	// Lookahead is how many columns to the right of a keyword cell are
	// searched for a value in settlement mode.
	Lookahead int
	// HeaderScanRows is how many leading rows are scanned for header cells
	// in list mode.
	HeaderScanRows int
	// DataColumnOffset is the first column that may hold a data header in
	// list mode; columns before it hold codes and names.
	DataColumnOffset int
	// NameColumns is how many leading columns are inspected for an area name.
	NameColumns int
	// ShortKeywordLen is the rune length at or below which an auto keyword
	// must match a header cell exactly.
	ShortKeywordLen int
	// MinSheetRows is the row count below which a sheet is skipped.
	MinSheetRows int
	// MinNonemptyCells is the non-empty cell count below which a sheet is
	// skipped.
	MinNonemptyCells int
	// SettlementPopulationFloor rejects smaller population values on
	// settlement cards.
	SettlementPopulationFloor float64
	// ListPopulationFloor rejects smaller population values in list sheets.
	// It defaults to the settlement floor; lower it for tables that list
	// small villages.
	ListPopulationFloor float64
	// SheetDenylist holds case-insensitive substrings of sheet names that
	// never carry per-area data.
	SheetDenylist []string
	// RatioMarkers mark a label as a ratio or index.
	RatioMarkers []string
	// FingerprintRows is how many rows feed the layout fingerprint.
	FingerprintRows int
}

// DefaultParams returns the default extraction parameters.
func DefaultParams() Params {
	return Params{
		Lookahead:                 50,
		HeaderScanRows:            20,
		DataColumnOffset:          2,
		NameColumns:               4,
		ShortKeywordLen:           3,
		MinSheetRows:              5,
		MinNonemptyCells:          3,
		SettlementPopulationFloor: 10000,
		ListPopulationFloor:       10000,
		SheetDenylist:             []string{"目次", "index", "注意", "注記", "原本", "menu", "表紙", "概況", "付表"},
		RatioMarkers:              []string{"率", "指数", "%"},
		FingerprintRows:           30,
	}
}
