package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"thousands separator", "1,234", 1234, true},
		{"plain integer", "13900000", 13900000, true},
		{"decimal", "0.512", 0.512, true},
		{"surrounding space", "  42 ", 42, true},
		{"full-width digits", "１，２３４", 1234, true},
		{"ascii negative", "-12.5", -12.5, true},
		{"black triangle", "▲500", -500, true},
		{"white triangle", "△1,200", -1200, true},
		{"triangle with space", "▲ 3", -3, true},
		{"bare triangle", "▲", 0, false},
		{"triangle then minus", "▲-500", 0, false},
		{"triangle then plus", "△+5", 0, false},
		{"two numbers in one cell", "1 234", 0, false},
		{"ideographic space around", "\u30001,234\u3000", 1234, true},
		{"triangle with junk", "▲abc", 0, false},
		{"hyphen", "-", 0, false},
		{"full-width hyphen", "－", 0, false},
		{"em dash", "—", 0, false},
		{"horizontal bar", "―", 0, false},
		{"ellipsis", "…", 0, false},
		{"asterisk", "*", 0, false},
		{"full-width asterisk", "＊", 0, false},
		{"triple asterisk", "***", 0, false},
		{"secret marker", "X", 0, false},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"text", "歳入総額", 0, false},
		{"nan text", "NaN", 0, false},
		{"inf text", "Inf", 0, false},
		{"nil", nil, 0, false},
		{"int", 42, 42, true},
		{"int64", int64(-7), -7, true},
		{"float", 2.5, 2.5, true},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"転入者数（国内）", "転入者数(国内)"},
		{" 歳入 総額 ", "歳入総額"},
		{"（Ａ）", "(A)"},
		{"住民基本台帳\n人口", "住民基本台帳人口"},
		{1234.0, "1234"},
		{nil, ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CellText(tt.input), "CellText(%v)", tt.input)
	}
}
