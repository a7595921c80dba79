// Package output serializes extracted records.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

// ToJSON serializes records as a JSON array. A nil slice becomes "[]".
func ToJSON(records []models.Record, pretty bool) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	if pretty {
		return json.MarshalIndent(records, "", "  ")
	}
	return json.Marshal(records)
}

// WriteJSONFile writes records to dir/<stem>.json and returns the path.
func WriteJSONFile(dir, stem string, records []models.Record, pretty bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := ToJSON(records, pretty)
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}
	path := filepath.Join(dir, stem+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
