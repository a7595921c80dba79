package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// OpenCSV loads a CSV file as a single-sheet workbook. The sheet is named
// after the file stem.
func OpenCSV(path string) (*models.Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	base := filepath.Base(path)
	return ReadCSV(file, base, strings.TrimSuffix(base, filepath.Ext(base)))
}

// ReadCSV parses CSV data from r. UTF-8 (with or without BOM) is read as
// is; anything else is decoded as Shift_JIS.
func ReadCSV(r io.Reader, name, sheetName string) (*models.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, japanese.ShiftJIS.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var grid [][]any
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", len(grid)+1, err)
		}
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		grid = append(grid, row)
	}
	return models.NewWorkbook(name, models.NewSheet(sheetName, grid)), nil
}
