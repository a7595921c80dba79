// Package config loads extraction settings from a YAML file and EXSTAT_*
// environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/ukaji3/exstat-go/pkg/exstat"
	"github.com/ukaji3/exstat-go/pkg/exstat/lexicon"
	"github.com/ukaji3/exstat-go/pkg/exstat/parser"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "EXSTAT"

// Config represents the complete application configuration
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction" envconfig:"EXTRACTION"`
	Sheets     SheetsConfig     `yaml:"sheets" envconfig:"SHEETS"`
	Lexicon    LexiconConfig    `yaml:"lexicon" ignored:"true"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// ExtractionConfig holds the heuristic thresholds. The population floors
// and keyword length are empirical and meant to be calibrated.
type ExtractionConfig struct {
	Lookahead                 int     `yaml:"lookahead" envconfig:"LOOKAHEAD" validate:"min=1"`
	HeaderScanRows            int     `yaml:"header_scan_rows" envconfig:"HEADER_SCAN_ROWS" validate:"min=1"`
	DataColumnOffset          int     `yaml:"data_column_offset" envconfig:"DATA_COLUMN_OFFSET" validate:"min=0"`
	NameColumns               int     `yaml:"name_columns" envconfig:"NAME_COLUMNS" validate:"min=1"`
	ShortKeywordLen           int     `yaml:"short_keyword_len" envconfig:"SHORT_KEYWORD_LEN" validate:"min=0"`
	MinSheetRows              int     `yaml:"min_sheet_rows" envconfig:"MIN_SHEET_ROWS" validate:"min=0"`
	MinNonemptyCells          int     `yaml:"min_nonempty_cells" envconfig:"MIN_NONEMPTY_CELLS" validate:"min=0"`
	SettlementPopulationFloor float64 `yaml:"settlement_population_floor" envconfig:"SETTLEMENT_POPULATION_FLOOR" validate:"min=0"`
	ListPopulationFloor       float64 `yaml:"list_population_floor" envconfig:"LIST_POPULATION_FLOOR" validate:"min=0"`
	FingerprintRows           int     `yaml:"fingerprint_rows" envconfig:"FINGERPRINT_ROWS" validate:"min=1"`
	DefaultFiscalYear         int     `yaml:"default_fiscal_year" envconfig:"DEFAULT_FISCAL_YEAR" validate:"min=1900,max=2200"`
}

// SheetsConfig controls sheet admission.
type SheetsConfig struct {
	Denylist     []string `yaml:"denylist" envconfig:"DENYLIST"`
	RatioMarkers []string `yaml:"ratio_markers" envconfig:"RATIO_MARKERS" validate:"min=1,dive,required"`
}

// LexiconConfig extends the built-in lexicon.
type LexiconConfig struct {
	// ExtraKeywords maps domain -> field -> additional keywords.
	ExtraKeywords map[string]map[string][]string `yaml:"extra_keywords"`
}

// OutputConfig controls where records are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Pretty     bool   `yaml:"pretty" envconfig:"PRETTY"`
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := parser.DefaultParams()
	return &Config{
		Extraction: ExtractionConfig{
			Lookahead:                 p.Lookahead,
			HeaderScanRows:            p.HeaderScanRows,
			DataColumnOffset:          p.DataColumnOffset,
			NameColumns:               p.NameColumns,
			ShortKeywordLen:           p.ShortKeywordLen,
			MinSheetRows:              p.MinSheetRows,
			MinNonemptyCells:          p.MinNonemptyCells,
			SettlementPopulationFloor: p.SettlementPopulationFloor,
			ListPopulationFloor:       p.ListPopulationFloor,
			FingerprintRows:           p.FingerprintRows,
			DefaultFiscalYear:         exstat.DefaultFiscalYear,
		},
		Sheets: SheetsConfig{
			Denylist:     p.SheetDenylist,
			RatioMarkers: p.RatioMarkers,
		},
		Output: OutputConfig{
			Dir:    "data",
			Pretty: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and that lexicon extensions name known
// domains and fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	for d, fields := range c.Lexicon.ExtraKeywords {
		schema, ok := lexicon.For(lexicon.Domain(d))
		if !ok {
			return fmt.Errorf("lexicon: unknown domain %q", d)
		}
		for name := range fields {
			if _, ok := schema.Field(name); !ok {
				return fmt.Errorf("lexicon: unknown field %q in domain %q", name, d)
			}
		}
	}
	return nil
}

// Params maps the configuration to extraction parameters.
func (c *Config) Params() parser.Params {
	e := c.Extraction
	return parser.Params{
		Lookahead:                 e.Lookahead,
		HeaderScanRows:            e.HeaderScanRows,
		DataColumnOffset:          e.DataColumnOffset,
		NameColumns:               e.NameColumns,
		ShortKeywordLen:           e.ShortKeywordLen,
		MinSheetRows:              e.MinSheetRows,
		MinNonemptyCells:          e.MinNonemptyCells,
		SettlementPopulationFloor: e.SettlementPopulationFloor,
		ListPopulationFloor:       e.ListPopulationFloor,
		SheetDenylist:             c.Sheets.Denylist,
		RatioMarkers:              c.Sheets.RatioMarkers,
		FingerprintRows:           e.FingerprintRows,
	}
}

// Schemas returns the built-in schemas extended with the configured extra
// keywords.
func (c *Config) Schemas() map[lexicon.Domain]lexicon.Schema {
	out := make(map[lexicon.Domain]lexicon.Schema, len(lexicon.Domains))
	for _, d := range lexicon.Domains {
		s, _ := lexicon.For(d)
		out[d] = s.WithKeywords(c.Lexicon.ExtraKeywords[string(d)])
	}
	return out
}

// Options builds extraction options from the configuration.
func (c *Config) Options() exstat.Options {
	p := c.Params()
	return exstat.Options{
		DefaultFiscalYear: c.Extraction.DefaultFiscalYear,
		Params:            &p,
		Schemas:           c.Schemas(),
	}
}
