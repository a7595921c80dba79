// Package exstat extracts structured statistics records from government
// spreadsheets whose layout varies from file to file.
package exstat

import (
	"io"
	"log/slog"

	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/parser"
)

// DefaultFiscalYear is used when neither the options nor the file name
// carry a fiscal year.
const DefaultFiscalYear = 2025

// Options configures extraction behavior.
type Options struct {
	// Domain selects the field schema. If empty, Extract detects it from the
	// file name.
	Domain lexicon.Domain
	// FiscalYear stamps every record. If zero, Extract reads it from the
	// file name and falls back to DefaultFiscalYear.
	FiscalYear int
	// DefaultFiscalYear overrides the package default fallback year.
	DefaultFiscalYear int
	// Params holds the heuristic thresholds. If nil, parser.DefaultParams
	// is used.
	Params *parser.Params
	// Schemas overrides the built-in schema of a domain.
	Schemas map[lexicon.Domain]lexicon.Schema
	// Logger receives per-sheet diagnostics. If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) params() parser.Params {
	if o.Params != nil {
		return *o.Params
	}
	return parser.DefaultParams()
}

func (o Options) schema(d lexicon.Domain) (lexicon.Schema, bool) {
	if s, ok := o.Schemas[d]; ok {
		return s, true
	}
	return lexicon.For(d)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) fallbackYear() int {
	if o.DefaultFiscalYear != 0 {
		return o.DefaultFiscalYear
	}
	return DefaultFiscalYear
}
