package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// negativeMarkers prefix a numeral to mean "negative" in Japanese
// statistical tables.
var negativeMarkers = []string{"▲", "△"}

// placeholders mean "suppressed" or "no data". Compared after NFKC folding.
var placeholders = map[string]struct{}{
	"-": {}, "‐": {}, "—": {}, "―": {}, "–": {},
	"...": {}, "・・・": {}, "･･･": {},
	"*": {}, "**": {}, "***": {},
	"x": {}, "X": {},
	"▲": {}, "△": {},
}

// ParseNumber converts a raw cell value into a number.
// It reports false for blanks, placeholders and anything unparseable.
func ParseNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		return parseNumericString(v)
	}
	return 0, false
}

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(norm.NFKC.String(s))
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	if _, ok := placeholders[s]; ok {
		return 0, false
	}
	for _, m := range negativeMarkers {
		if rest, ok := strings.CutPrefix(s, m); ok {
			rest = strings.TrimSpace(rest)
			if strings.HasPrefix(rest, "-") || strings.HasPrefix(rest, "+") {
				return 0, false
			}
			n, ok := parseFloat(rest)
			if !ok {
				return 0, false
			}
			return -n, true
		}
	}
	return parseFloat(s)
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CellText returns the matching form of a cell: NFKC-folded (full-width
// letters, digits and brackets become ASCII) with all whitespace removed.
func CellText(raw any) string {
	var s string
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		s = v
	default:
		n, ok := ParseNumber(v)
		if !ok {
			return ""
		}
		s = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return stripSpace(norm.NFKC.String(s))
}

func stripSpace(s string) string {
	if strings.IndexFunc(s, unicode.IsSpace) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
