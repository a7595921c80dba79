package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

func TestExtractListMigrationMarkers(t *testing.T) {
	s := blankSheet("転入転出", 6, 8)
	put(s, 1, 4, "(A)")
	put(s, 1, 6, "(B)")
	s.Rows[3] = []any{"", "北海道", "", "", 50000, "", 40000}

	recs := ExtractList(s, mustSchema(lexicon.Migration), 2022, "FY2022_migration.xlsx", DefaultParams())
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "北海道", r.Prefecture)
	assert.Equal(t, "北海道", r.Area)
	assert.Equal(t, 50000.0, value(r, "domestic_in"))
	assert.Equal(t, 40000.0, value(r, "domestic_out"))
	assert.Nil(t, value(r, "international_in"))
	assert.Nil(t, value(r, "social_increase"))
}

func TestExtractListColumnStability(t *testing.T) {
	s := blankSheet("都道府県別", 12, 9)
	put(s, 0, 0, "住民基本台帳人口移動報告")
	put(s, 3, 5, "（Ａ）")
	put(s, 3, 7, "(B)")
	put(s, 4, 5, "人")
	put(s, 4, 7, "人")
	s.Rows[6] = []any{"01", "北海道", "", "", "", 1000, "", 2000}
	s.Rows[7] = []any{"02", "青森県", "", "", "", "3,000", "", "▲4"}
	s.Rows[8] = []any{"", "合計", "", "", "", 9999, "", 9999}
	s.Rows[9] = []any{"13", "", "東京都", "", "", "5", "", "6"}
	s.Rows[10] = []any{"", "", "札幌市", "", "", "7", "", "8"}

	h := DiscoverHeaders(s, mustSchema(lexicon.Migration), DefaultParams())
	assert.Equal(t, 3, h.HeaderRow)
	col, ok := h.Column("domestic_in")
	require.True(t, ok)
	assert.Equal(t, 5, col)
	col, ok = h.Column("domestic_out")
	require.True(t, ok)
	assert.Equal(t, 7, col)

	recs := ExtractList(s, mustSchema(lexicon.Migration), 2022, "m.xlsx", DefaultParams())
	require.Len(t, recs, 3)

	want := []struct {
		pref    string
		in, out float64
	}{
		{"北海道", 1000, 2000},
		{"青森県", 3000, -4},
		{"東京都", 5, 6},
	}
	for i, w := range want {
		assert.Equal(t, w.pref, recs[i].Prefecture)
		assert.Equal(t, w.in, value(recs[i], "domestic_in"))
		assert.Equal(t, w.out, value(recs[i], "domestic_out"))
	}
}

func TestExtractListPopulationMunicipalities(t *testing.T) {
	s := models.NewSheet("人口動態", [][]any{
		{"人口動態統計"},
		{"コード", "市区町村名", "", "人口", "出生数", "死亡数"},
		{"01000", "北海道", "", "5,140,000", "28,000", "70,000"},
		{"01100", "", "札幌市", "1,960,000", "12,000", "22,000"},
		{"", "", "合計", "9,999,999", "1", "1"},
		{"01202", "", "函館市", "240,000", "1,100", "4,500"},
		{},
		{"01999", "", "音威子府村", "500", "2", "9"},
		{"01998", "", "幽霊町", "-", "-", "-"},
	})

	recs := ExtractList(s, mustSchema(lexicon.Population), 2021, "population.xlsx", DefaultParams())
	require.Len(t, recs, 4)

	assert.Equal(t, "北海道", recs[0].Area)
	assert.Equal(t, 5140000.0, value(recs[0], "total_population"))

	assert.Equal(t, "北海道", recs[1].Prefecture)
	assert.Equal(t, "北海道札幌市", recs[1].Area)
	assert.Equal(t, 1960000.0, value(recs[1], "total_population"))
	assert.Equal(t, 12000.0, value(recs[1], "births"))
	assert.Equal(t, 22000.0, value(recs[1], "deaths"))

	assert.Equal(t, "北海道函館市", recs[2].Area)

	assert.Equal(t, "北海道音威子府村", recs[3].Area)
	assert.Nil(t, value(recs[3], "total_population"), "below the population floor")
	assert.Equal(t, 2.0, value(recs[3], "births"))
}

func TestExtractListMunicipalityContextFromSheetName(t *testing.T) {
	s := models.NewSheet("27大阪府", [][]any{
		{"", "", "人口", "出生数"},
		{"", "堺市", "820,000", "5,000"},
	})

	recs := ExtractList(s, mustSchema(lexicon.Population), 2021, "p.xlsx", DefaultParams())
	require.Len(t, recs, 1)
	assert.Equal(t, "大阪府", recs[0].Prefecture)
	assert.Equal(t, "大阪府堺市", recs[0].Area)
}

func TestDiscoverHeadersLongerKeywordWinsConflict(t *testing.T) {
	schema := lexicon.Schema{Fields: []lexicon.FieldSpec{
		{Name: "change", Keywords: []lexicon.Keyword{{Text: "増減", Mode: lexicon.MatchContains}}},
		{Name: "social_change", Keywords: []lexicon.Keyword{{Text: "社会増減", Mode: lexicon.MatchContains}}},
	}}
	s := blankSheet("s", 4, 8)
	put(s, 1, 3, "社会増減")
	put(s, 2, 5, "人口増減")

	h := DiscoverHeaders(s, schema, DefaultParams())
	col, _ := h.Column("social_change")
	assert.Equal(t, 3, col)
	col, _ = h.Column("change")
	assert.Equal(t, 5, col)
	assert.Equal(t, 2, h.HeaderRow)
}

func TestDiscoverHeadersExactBeatsContainsAtEqualLength(t *testing.T) {
	schema := lexicon.Schema{Fields: []lexicon.FieldSpec{
		{Name: "loose", Keywords: []lexicon.Keyword{{Text: "(A)", Mode: lexicon.MatchContains}}},
		{Name: "marker", Keywords: []lexicon.Keyword{{Text: "(A)", Mode: lexicon.MatchExact}}},
	}}
	s := blankSheet("s", 3, 8)
	put(s, 0, 4, "(A)")
	put(s, 0, 6, "(A)計")

	h := DiscoverHeaders(s, schema, DefaultParams())
	col, _ := h.Column("marker")
	assert.Equal(t, 4, col)
	col, _ = h.Column("loose")
	assert.Equal(t, 6, col)
}

func TestDiscoverHeadersShortKeywordsMatchExactly(t *testing.T) {
	s := blankSheet("s", 3, 8)
	put(s, 0, 2, "合計")
	put(s, 1, 4, "計")

	h := DiscoverHeaders(s, mustSchema(lexicon.Population), DefaultParams())
	col, ok := h.Column("total_population")
	require.True(t, ok)
	assert.Equal(t, 4, col)
}

func TestDiscoverHeadersSkipsNameColumns(t *testing.T) {
	s := blankSheet("s", 3, 8)
	put(s, 0, 1, "(A)")
	put(s, 0, 0, "(B)")

	h := DiscoverHeaders(s, mustSchema(lexicon.Migration), DefaultParams())
	assert.True(t, h.Empty())
	assert.Equal(t, -1, h.HeaderRow)
	assert.Nil(t, ExtractList(s, mustSchema(lexicon.Migration), 2022, "m.xlsx", DefaultParams()))
}

func TestDiscoverHeadersScanWindow(t *testing.T) {
	p := DefaultParams()
	p.HeaderScanRows = 2

	s := blankSheet("s", 5, 8)
	put(s, 3, 4, "(A)")

	assert.True(t, DiscoverHeaders(s, mustSchema(lexicon.Migration), p).Empty())
}

func TestExtractListPopulationFloor(t *testing.T) {
	s := models.NewSheet("人口", [][]any{
		{"", "", "人口", "出生数"},
		{"", "鳥取県", "5,000", "30"},
	})
	schema := mustSchema(lexicon.Population)

	recs := ExtractList(s, schema, 2021, "p.xlsx", DefaultParams())
	require.Len(t, recs, 1)
	assert.Nil(t, value(recs[0], "total_population"))
	assert.Equal(t, 30.0, value(recs[0], "births"))

	p := DefaultParams()
	p.ListPopulationFloor = 1000
	recs = ExtractList(s, schema, 2021, "p.xlsx", p)
	require.Len(t, recs, 1)
	assert.Equal(t, 5000.0, value(recs[0], "total_population"))
}
