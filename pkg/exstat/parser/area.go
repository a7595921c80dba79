package parser

import (
	"strings"
	"unicode/utf8"
)

// Prefectures is the fixed enumeration of the 47 prefectures in JIS order.
var Prefectures = []string{
	"北海道", "青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県",
	"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県",
	"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県", "岐阜県",
	"静岡県", "愛知県", "三重県", "滋賀県", "京都府", "大阪府", "兵庫県",
	"奈良県", "和歌山県", "鳥取県", "島根県", "岡山県", "広島県", "山口県",
	"徳島県", "香川県", "愛媛県", "高知県", "福岡県", "佐賀県", "長崎県",
	"熊本県", "大分県", "宮崎県", "鹿児島県", "沖縄県",
}

var prefectureSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Prefectures))
	for _, p := range Prefectures {
		m[p] = struct{}{}
	}
	return m
}()

// municipalitySuffixes end a municipality name (city, town, village, ward).
var municipalitySuffixes = []string{"市", "町", "村", "区"}

// aggregateLabels are row labels for totals and subtotals, never areas.
var aggregateLabels = map[string]struct{}{
	"合計": {}, "再掲": {}, "全国": {}, "県計": {}, "総数": {},
}

// AreaKind classifies a resolved area token.
type AreaKind int

const (
	AreaNone AreaKind = iota
	AreaPrefecture
	AreaMunicipality
)

func (k AreaKind) String() string {
	switch k {
	case AreaPrefecture:
		return "prefecture"
	case AreaMunicipality:
		return "municipality"
	default:
		return "none"
	}
}

// Area is the result of resolving candidate tokens.
type Area struct {
	Kind AreaKind
	Name string
}

// IsPrefecture reports whether name is one of the 47 canonical names.
func IsPrefecture(name string) bool {
	_, ok := prefectureSet[name]
	return ok
}

// Resolve classifies candidate tokens, typically the leading cells of a row.
// A prefecture in any token wins over municipalities in earlier tokens.
func Resolve(tokens []string, allowMunicipality bool) Area {
	for _, tok := range tokens {
		if p, ok := matchPrefecture(tok); ok {
			return Area{Kind: AreaPrefecture, Name: p}
		}
	}
	if !allowMunicipality {
		return Area{}
	}
	for _, tok := range tokens {
		if m, ok := matchMunicipality(tok); ok {
			return Area{Kind: AreaMunicipality, Name: m}
		}
	}
	return Area{}
}

// matchPrefecture accepts an exact or whitespace-insensitive canonical name,
// optionally preceded by a numeric code such as "01" or "13_".
func matchPrefecture(tok string) (string, bool) {
	t := CellText(tok)
	if t == "" {
		return "", false
	}
	if IsPrefecture(t) {
		return t, true
	}
	if stripped := strings.TrimLeft(t, "0123456789-_.:"); stripped != t && IsPrefecture(stripped) {
		return stripped, true
	}
	return "", false
}

func matchMunicipality(tok string) (string, bool) {
	t := CellText(tok)
	if utf8.RuneCountInString(t) < 2 {
		return "", false
	}
	if _, ok := aggregateLabels[t]; ok {
		return "", false
	}
	for _, s := range municipalitySuffixes {
		if strings.HasSuffix(t, s) {
			return t, true
		}
	}
	return "", false
}

// NormalizePrefecture returns the canonical prefecture name contained in
// token, absorbing codes or other characters around it.
func NormalizePrefecture(token string) (string, bool) {
	t := CellText(token)
	if t == "" {
		return "", false
	}
	if IsPrefecture(t) {
		return t, true
	}
	for _, p := range Prefectures {
		if strings.Contains(t, p) {
			return p, true
		}
	}
	return "", false
}

// ComposeArea builds the identity of a municipality row.
func ComposeArea(prefecture, municipality string) string {
	if prefecture == "" || strings.HasPrefix(municipality, prefecture) {
		return municipality
	}
	return prefecture + municipality
}
