package parser

import (
	"strings"

	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
)

type compiledKeyword struct {
	text  string
	mode  lexicon.MatchMode
	runes int
}

// matcher is a field spec with its keywords folded and their match modes
// fixed for one extractor.
type matcher struct {
	spec     lexicon.FieldSpec
	keywords []compiledKeyword
}

// compileField resolves MatchAuto keywords: list mode matches keywords of at
// most shortLen runes exactly, everything else by containment.
func compileField(spec lexicon.FieldSpec, listMode bool, shortLen int) matcher {
	m := matcher{spec: spec}
	for _, kw := range spec.Keywords {
		text := CellText(kw.Text)
		if text == "" {
			continue
		}
		ck := compiledKeyword{text: text, mode: kw.Mode, runes: kw.Len()}
		if ck.mode == lexicon.MatchAuto {
			ck.mode = lexicon.MatchContains
			if listMode && ck.runes <= shortLen {
				ck.mode = lexicon.MatchExact
			}
		}
		m.keywords = append(m.keywords, ck)
	}
	return m
}

func compileSchema(schema lexicon.Schema, listMode bool, shortLen int) []matcher {
	ms := make([]matcher, len(schema.Fields))
	for i, f := range schema.Fields {
		ms[i] = compileField(f, listMode, shortLen)
	}
	return ms
}

// match returns the most specific keyword hitting text: the longest, with
// exact matches preferred at equal length.
func (m matcher) match(text string) (compiledKeyword, bool) {
	var best compiledKeyword
	found := false
	for _, kw := range m.keywords {
		var hit bool
		switch kw.mode {
		case lexicon.MatchExact:
			hit = text == kw.text
		default:
			hit = strings.Contains(text, kw.text)
		}
		if !hit {
			continue
		}
		if !found || kw.runes > best.runes || (kw.runes == best.runes && kw.mode == lexicon.MatchExact) {
			best = kw
			found = true
		}
	}
	return best, found
}

// inColumnBound reports whether col is within the field's column ceiling.
func (m matcher) inColumnBound(col int) bool {
	return m.spec.MaxColumn <= 0 || col < m.spec.MaxColumn
}

// labelAllowed applies the ratio/amount label guard to a keyword cell.
func labelAllowed(kind lexicon.Kind, text string, markers []string) bool {
	switch kind {
	case lexicon.KindRatio:
		return hasMarker(text, markers)
	case lexicon.KindAmount:
		return !hasMarker(text, markers)
	}
	return true
}

func hasMarker(text string, markers []string) bool {
	for _, mk := range markers {
		if mk != "" && strings.Contains(text, CellText(mk)) {
			return true
		}
	}
	return false
}

// valueAllowed applies the value-shape guard.
func valueAllowed(kind lexicon.Kind, v, populationFloor float64) bool {
	if kind == lexicon.KindPopulation {
		return v >= populationFloor
	}
	return true
}

// textGrid folds every cell of a sheet once.
func textGrid(rows [][]any) [][]string {
	grid := make([][]string, len(rows))
	for r, row := range rows {
		grid[r] = make([]string, len(row))
		for c, v := range row {
			grid[r][c] = CellText(v)
		}
	}
	return grid
}
