package exstat

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/models"
	"github.com/ukaji3/exstat-go/pkg/exstat/parser"
	"github.com/ukaji3/exstat-go/pkg/exstat/reader"
)

var fiscalYearRe = regexp.MustCompile(`FY(\d{4})`)

// SheetReport describes what happened to one sheet.
type SheetReport struct {
	Name string
	// Skipped is the admission reason when the sheet was not extracted.
	Skipped string
	// Records is the number of records the sheet produced before
	// de-duplication.
	Records int
	Layout  parser.LayoutProfile
	// Err is set when extraction of the sheet failed.
	Err error
}

// Result is the outcome of extracting one file.
type Result struct {
	Source     string
	Domain     lexicon.Domain
	FiscalYear int
	Records    []models.Record
	Sheets     []SheetReport
}

// Extract reads the workbook at path and extracts its records.
func Extract(path string, opts Options) (*Result, error) {
	wb, err := reader.Open(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	domain := opts.Domain
	if domain == "" {
		domain = DetectDomain(source)
	}
	fiscalYear := opts.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = FiscalYearFromName(source, opts.fallbackYear())
	}

	return ExtractWorkbook(wb, domain, fiscalYear, source, opts)
}

// ExtractWorkbook runs the extractor of domain over every admitted sheet
// and de-duplicates the result.
func ExtractWorkbook(wb *models.Workbook, domain lexicon.Domain, fiscalYear int, source string, opts Options) (*Result, error) {
	schema, ok := opts.schema(domain)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	if schema.Domain == "" {
		schema.Domain = domain
	}

	res := &Result{Source: source, Domain: domain, FiscalYear: fiscalYear}
	var all []models.Record
	for _, sheet := range sheetsOf(wb) {
		recs, report := extractSheet(sheet, schema, fiscalYear, source, opts)
		res.Sheets = append(res.Sheets, report)
		all = append(all, recs...)
	}
	res.Records = parser.Dedupe(all)
	return res, nil
}

// ExtractSettlement extracts fiscal settlement cards, one area per sheet.
func ExtractSettlement(wb *models.Workbook, fiscalYear int, source string, opts Options) []models.Record {
	return extractDomain(wb, lexicon.Settlement, fiscalYear, source, opts)
}

// ExtractMigration extracts migration flow list sheets.
func ExtractMigration(wb *models.Workbook, fiscalYear int, source string, opts Options) []models.Record {
	return extractDomain(wb, lexicon.Migration, fiscalYear, source, opts)
}

// ExtractPopulation extracts vital statistics list sheets, including
// municipality rows.
func ExtractPopulation(wb *models.Workbook, fiscalYear int, source string, opts Options) []models.Record {
	return extractDomain(wb, lexicon.Population, fiscalYear, source, opts)
}

func extractDomain(wb *models.Workbook, domain lexicon.Domain, fiscalYear int, source string, opts Options) []models.Record {
	res, err := ExtractWorkbook(wb, domain, fiscalYear, source, opts)
	if err != nil {
		return nil
	}
	return res.Records
}

// sheetsOf returns the non-nil sheets of wb in order.
func sheetsOf(wb *models.Workbook) []*models.Sheet {
	if wb == nil {
		return nil
	}
	sheets := make([]*models.Sheet, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		if s != nil {
			sheets = append(sheets, s)
		}
	}
	return sheets
}

// Extractors used by extractSheet; replaceable in tests.
var (
	settlementExtractor = parser.ExtractSettlement
	listExtractor       = parser.ExtractList
)

// extractSheet admits and extracts one sheet. A panic inside the heuristics
// is turned into an ExtractionError so the remaining sheets still run.
func extractSheet(sheet *models.Sheet, schema lexicon.Schema, fiscalYear int, source string, opts Options) (recs []models.Record, report SheetReport) {
	component := ComponentList
	if schema.Domain == lexicon.Settlement {
		component = ComponentSettlement
	}
	log := opts.logger().With(slog.String("source", source), slog.String("sheet", sheet.Name))
	report = SheetReport{Name: sheet.Name}

	defer func() {
		if r := recover(); r != nil {
			report.Err = NewExtractionError(sheet.Name, component, fmt.Errorf("%v", r))
			report.Records = 0
			recs = nil
			log.Warn("Sheet extraction failed", slog.String("error", report.Err.Error()))
		}
	}()

	p := opts.params()
	report.Layout = parser.Profile(sheet, p)
	if ok, reason := parser.Admit(sheet, p); !ok {
		report.Skipped = reason
		log.Debug("Sheet skipped", slog.String("reason", reason))
		return nil, report
	}

	if component == ComponentSettlement {
		if rec, ok := settlementExtractor(sheet, schema, fiscalYear, source, p); ok {
			recs = append(recs, rec)
		}
	} else {
		recs = listExtractor(sheet, schema, fiscalYear, source, p)
	}
	report.Records = len(recs)

	log.Debug("Sheet extracted",
		slog.String("component", component),
		slog.Int("records", len(recs)),
		slog.String("range", report.Layout.Range),
		slog.String("layout", report.Layout.Fingerprint))
	return recs, report
}

// DetectDomain picks a domain from a file name: "migration" and
// "population" select their list domains, anything else is a settlement
// card workbook.
func DetectDomain(fileName string) lexicon.Domain {
	name := strings.ToLower(fileName)
	switch {
	case strings.Contains(name, "migration"):
		return lexicon.Migration
	case strings.Contains(name, "population"):
		return lexicon.Population
	default:
		return lexicon.Settlement
	}
}

// FiscalYearFromName reads a fiscal year written as "FY2023" in a file
// name, returning fallback when there is none.
func FiscalYearFromName(fileName string, fallback int) int {
	m := fiscalYearRe.FindStringSubmatch(fileName)
	if m == nil {
		return fallback
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return year
}
