package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

func tokyoCard() *models.Sheet {
	s := blankSheet("東京都", 11, 8)
	put(s, 2, 1, "歳入総額")
	put(s, 2, 4, "1,234,567")
	put(s, 10, 2, "住民基本台帳人口")
	put(s, 10, 5, "13900000")
	return s
}

func TestExtractSettlementCard(t *testing.T) {
	schema := mustSchema(lexicon.Settlement)

	rec, ok := ExtractSettlement(tokyoCard(), schema, 2023, "FY2023_card.xlsx", DefaultParams())
	require.True(t, ok)

	assert.Equal(t, 2023, rec.FiscalYear)
	assert.Equal(t, "東京都", rec.Prefecture)
	assert.Empty(t, rec.Area)
	assert.Equal(t, "FY2023_card.xlsx", rec.Source)
	assert.Equal(t, 1234567.0, value(rec, "total_revenue"))
	assert.Equal(t, 13900000.0, value(rec, "population"))

	for _, name := range schema.FieldNames() {
		if name == "total_revenue" || name == "population" {
			continue
		}
		assert.Nil(t, value(rec, name), "field %s should be null", name)
	}
	assert.Len(t, rec.Values, len(schema.Fields))
}

func TestExtractSettlementIsIdempotent(t *testing.T) {
	schema := mustSchema(lexicon.Settlement)
	sheet := tokyoCard()

	first, ok := ExtractSettlement(sheet, schema, 2023, "a.xlsx", DefaultParams())
	require.True(t, ok)
	second, ok := ExtractSettlement(sheet, schema, 2023, "a.xlsx", DefaultParams())
	require.True(t, ok)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestExtractSettlementPopulationFloor(t *testing.T) {
	schema := mustSchema(lexicon.Settlement)

	t.Run("skips code in favor of further value", func(t *testing.T) {
		s := blankSheet("13東京都", 6, 10)
		put(s, 1, 0, "住民基本台帳人口")
		put(s, 1, 1, 47)
		put(s, 1, 4, "13,900,000")

		rec, ok := ExtractSettlement(s, schema, 2022, "x.xlsx", DefaultParams())
		require.True(t, ok)
		assert.Equal(t, 13900000.0, value(rec, "population"))
	})

	t.Run("left null when nothing qualifies", func(t *testing.T) {
		s := blankSheet("東京都", 6, 10)
		put(s, 1, 0, "住民基本台帳人口")
		put(s, 1, 1, 47)
		put(s, 3, 0, "歳出総額")
		put(s, 3, 2, "987")

		rec, ok := ExtractSettlement(s, schema, 2022, "x.xlsx", DefaultParams())
		require.True(t, ok)
		assert.Nil(t, value(rec, "population"))
		assert.Equal(t, 987.0, value(rec, "total_expenditure"))
	})
}

func TestExtractSettlementRatioAmountGuards(t *testing.T) {
	schema := mustSchema(lexicon.Settlement)
	s := blankSheet("大阪府", 6, 10)
	put(s, 0, 0, "実質公債費比率")
	put(s, 0, 3, "12.3")
	put(s, 1, 0, "公債費")
	put(s, 1, 3, "45,000")
	put(s, 2, 0, "実質収支比率")
	put(s, 2, 3, "1.1")
	put(s, 3, 0, "実質収支")
	put(s, 3, 3, "▲250")

	rec, ok := ExtractSettlement(s, schema, 2022, "x.xlsx", DefaultParams())
	require.True(t, ok)
	assert.Equal(t, 12.3, value(rec, "real_debt_service_ratio"))
	assert.Equal(t, 45000.0, value(rec, "public_debt_expenses"))
	assert.Equal(t, -250.0, value(rec, "real_balance"))
}

func TestExtractSettlementColumnCeiling(t *testing.T) {
	schema := lexicon.Schema{
		Domain: lexicon.Settlement,
		Fields: []lexicon.FieldSpec{
			{Name: "local_tax", Kind: lexicon.KindAmount, Keywords: []lexicon.Keyword{{Text: "地方税"}}, MaxColumn: 6},
		},
	}
	s := blankSheet("北海道", 6, 20)
	put(s, 0, 8, "地方税")
	put(s, 0, 10, "999")
	put(s, 2, 1, "地方税")
	put(s, 2, 7, "111")
	put(s, 3, 1, "地方税")
	put(s, 3, 4, "555")

	rec, ok := ExtractSettlement(s, schema, 2022, "x.xlsx", DefaultParams())
	require.True(t, ok)
	assert.Equal(t, 555.0, value(rec, "local_tax"))
}

func TestExtractSettlementLookahead(t *testing.T) {
	schema := mustSchema(lexicon.Settlement)
	p := DefaultParams()
	p.Lookahead = 3

	s := blankSheet("福岡県", 6, 10)
	put(s, 0, 0, "歳入総額")
	put(s, 0, 5, "100")

	_, ok := ExtractSettlement(s, schema, 2022, "x.xlsx", p)
	assert.False(t, ok, "value beyond the lookahead window is not taken")

	put(s, 0, 3, "50")
	rec, ok := ExtractSettlement(s, schema, 2022, "x.xlsx", p)
	require.True(t, ok)
	assert.Equal(t, 50.0, value(rec, "total_revenue"))
}

func TestExtractSettlementUnknownArea(t *testing.T) {
	schema := mustSchema(lexicon.Settlement)
	s := tokyoCard()
	s.Name = "Sheet1"

	_, ok := ExtractSettlement(s, schema, 2022, "card.xlsx", DefaultParams())
	assert.False(t, ok)

	rec, ok := ExtractSettlement(s, schema, 2022, "FY2022_東京都.xlsx", DefaultParams())
	require.True(t, ok)
	assert.Equal(t, "東京都", rec.Prefecture)
}

func TestExtractSettlementRaggedRows(t *testing.T) {
	schema := mustSchema(lexicon.Settlement)
	s := blankSheet("沖縄県", 5, 1)
	s.Rows[1] = []any{"歳入総額"}
	s.Rows[2] = nil
	s.Rows[3] = []any{"歳出総額", nil, "42"}

	rec, ok := ExtractSettlement(s, schema, 2022, "x.xlsx", DefaultParams())
	require.True(t, ok)
	assert.Nil(t, value(rec, "total_revenue"))
	assert.Equal(t, 42.0, value(rec, "total_expenditure"))
}
