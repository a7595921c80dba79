// Package lexicon holds the keyword dictionary that maps semantic fields to
// the surface text used for them in published spreadsheets.
package lexicon

import "unicode/utf8"

// Domain names a family of statistics with its own field schema.
type Domain string

const (
	// Settlement is the per-area fiscal settlement card (決算カード).
	Settlement Domain = "settlement"
	// Migration is the inter-area migration flow table (人口移動).
	Migration Domain = "migration"
	// Population is the vital statistics / population table (人口動態).
	Population Domain = "population"
)

// Domains lists every built-in domain.
var Domains = []Domain{Settlement, Migration, Population}

// MatchMode selects how a keyword is compared with cell text.
type MatchMode int

const (
	// MatchAuto lets the extractor decide: containment in settlement mode,
	// exact match for short keywords in list mode.
	MatchAuto MatchMode = iota
	// MatchExact requires the cell text to equal the keyword.
	MatchExact
	// MatchContains requires the cell text to contain the keyword.
	MatchContains
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchContains:
		return "contains"
	default:
		return "auto"
	}
}

// Kind carries the value-shape and label guards applied to a field.
type Kind int

const (
	// KindPlain fields have no guard.
	KindPlain Kind = iota
	// KindAmount fields reject labels carrying a ratio marker.
	KindAmount
	// KindRatio fields require a ratio marker in the label.
	KindRatio
	// KindPopulation fields reject implausibly small values.
	KindPopulation
)

func (k Kind) String() string {
	switch k {
	case KindAmount:
		return "amount"
	case KindRatio:
		return "ratio"
	case KindPopulation:
		return "population"
	default:
		return "plain"
	}
}

// Keyword is one surface form of a field.
type Keyword struct {
	Text string
	Mode MatchMode
}

// Len returns the keyword length in runes.
func (k Keyword) Len() int {
	return utf8.RuneCountInString(k.Text)
}

// FieldSpec declares how one field is found.
type FieldSpec struct {
	// Name is the output field name.
	Name string
	// Kind selects the guards applied to matches.
	Kind Kind
	// Keywords lists the surface forms; any may match.
	Keywords []Keyword
	// MaxColumn, when positive, limits keyword and value columns to
	// [0, MaxColumn).
	MaxColumn int
}

// Schema is the ordered field list of one domain.
type Schema struct {
	Domain Domain
	Fields []FieldSpec
	// Municipalities allows municipality rows in list sheets.
	Municipalities bool
}

// FieldNames returns the field names in schema order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the spec for name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// WithKeywords returns a copy of s with extra keywords appended to the named
// fields. Unknown field names are ignored.
func (s Schema) WithKeywords(extra map[string][]string) Schema {
	out := Schema{
		Domain:         s.Domain,
		Municipalities: s.Municipalities,
		Fields:         make([]FieldSpec, len(s.Fields)),
	}
	for i, f := range s.Fields {
		kws := make([]Keyword, len(f.Keywords), len(f.Keywords)+len(extra[f.Name]))
		copy(kws, f.Keywords)
		for _, text := range extra[f.Name] {
			if text != "" {
				kws = append(kws, Keyword{Text: text})
			}
		}
		f.Keywords = kws
		out.Fields[i] = f
	}
	return out
}

// For returns the built-in schema of d.
func For(d Domain) (Schema, bool) {
	switch d {
	case Settlement:
		return settlement(), true
	case Migration:
		return migration(), true
	case Population:
		return population(), true
	}
	return Schema{}, false
}

func auto(texts ...string) []Keyword {
	kws := make([]Keyword, len(texts))
	for i, t := range texts {
		kws[i] = Keyword{Text: t}
	}
	return kws
}

func exact(text string) Keyword    { return Keyword{Text: text, Mode: MatchExact} }
func contains(text string) Keyword { return Keyword{Text: text, Mode: MatchContains} }

// leftBlock is the column ceiling for revenue items, which sit in the left
// half of a settlement card.
const leftBlock = 24

func settlement() Schema {
	return Schema{
		Domain: Settlement,
		Fields: []FieldSpec{
			{Name: "population", Kind: KindPopulation, Keywords: auto("住民基本台帳人口", "住基人口", "人口")},
			{Name: "land_area", Kind: KindPlain, Keywords: auto("面積")},
			{Name: "total_revenue", Kind: KindAmount, Keywords: auto("歳入総額", "歳入決算総額", "歳入合計")},
			{Name: "total_expenditure", Kind: KindAmount, Keywords: auto("歳出総額", "歳出決算総額", "歳出合計")},
			{Name: "real_balance", Kind: KindAmount, Keywords: auto("実質収支", "実質収支額")},
			{Name: "single_year_balance", Kind: KindAmount, Keywords: auto("単年度収支")},
			{Name: "financial_capability_index", Kind: KindRatio, Keywords: auto("財政力指数")},
			{Name: "real_debt_service_ratio", Kind: KindRatio, Keywords: auto("実質公債費比率")},
			{Name: "future_burden_ratio", Kind: KindRatio, Keywords: auto("将来負担比率")},
			{Name: "current_account_ratio", Kind: KindRatio, Keywords: auto("経常収支比率")},
			{Name: "local_tax", Kind: KindAmount, Keywords: auto("地方税", "普通税", "都道府県税"), MaxColumn: leftBlock},
			{Name: "local_allocation_tax", Kind: KindAmount, Keywords: auto("地方交付税"), MaxColumn: leftBlock},
			{Name: "local_consumption_tax", Kind: KindAmount, Keywords: auto("地方消費税"), MaxColumn: leftBlock},
			{Name: "personnel_expenses", Kind: KindAmount, Keywords: auto("人件費")},
			{Name: "assistance_expenses", Kind: KindAmount, Keywords: auto("扶助費")},
			{Name: "public_debt_expenses", Kind: KindAmount, Keywords: auto("公債費")},
			{Name: "ordinary_construction_expenses", Kind: KindAmount, Keywords: auto("普通建設事業費")},
		},
	}
}

func migration() Schema {
	return Schema{
		Domain: Migration,
		Fields: []FieldSpec{
			{Name: "domestic_in", Kind: KindPlain, Keywords: append(auto("転入者数(国内)"), exact("(A)"))},
			{Name: "domestic_out", Kind: KindPlain, Keywords: append(auto("転出者数(国内)"), exact("(B)"))},
			{Name: "international_in", Kind: KindPlain, Keywords: append(auto("国外からの転入者数", "国外転入"), exact("(C)"))},
			{Name: "international_out", Kind: KindPlain, Keywords: append(auto("国外への転出者数", "国外転出"), exact("(D)"))},
			{Name: "social_increase", Kind: KindPlain, Keywords: append(auto("社会増加数", "社会増減", "(A)-(B)+(C)-(D)"), exact("(E)"))},
		},
	}
}

func population() Schema {
	return Schema{
		Domain:         Population,
		Municipalities: true,
		Fields: []FieldSpec{
			{Name: "total_population", Kind: KindPopulation, Keywords: auto("住民基本台帳人口", "人口", "総数", "計")},
			{Name: "births", Kind: KindPlain, Keywords: append(auto("出生者数", "出生数"), contains("出生"))},
			{Name: "deaths", Kind: KindPlain, Keywords: append(auto("死亡者数", "死亡数"), contains("死亡"))},
		},
	}
}
