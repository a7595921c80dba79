package parser

import "github.com/ukaji3/exstat-go/pkg/exstat/models"

// Dedupe drops records whose (fiscal year, area) key was already seen,
// keeping the first occurrence. Order is preserved and nothing is merged.
func Dedupe(records []models.Record) []models.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
