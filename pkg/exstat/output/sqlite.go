package output

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ukaji3/exstat-go/pkg/exstat/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	domain      TEXT    NOT NULL,
	fiscal_year INTEGER NOT NULL,
	area_key    TEXT    NOT NULL,
	prefecture  TEXT    NOT NULL,
	area        TEXT    NOT NULL,
	source      TEXT    NOT NULL,
	sheet       TEXT    NOT NULL,
	fields      TEXT    NOT NULL,
	PRIMARY KEY (domain, fiscal_year, area_key)
);`

// StoredRecord is one row of the records table.
type StoredRecord struct {
	Domain     string `db:"domain"`
	FiscalYear int    `db:"fiscal_year"`
	AreaKey    string `db:"area_key"`
	Prefecture string `db:"prefecture"`
	Area       string `db:"area"`
	Source     string `db:"source"`
	Sheet      string `db:"sheet"`
	Fields     string `db:"fields"`
}

// Values decodes the stored field values.
func (s StoredRecord) Values() (map[string]*float64, error) {
	m := map[string]*float64{}
	if err := json.Unmarshal([]byte(s.Fields), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Store persists records in SQLite. Like de-duplication, the first record
// stored for a key wins; later ones are ignored.
type Store struct {
	db *sqlx.DB
}

// OpenStore opens (and creates if needed) the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts records of domain in one transaction and returns how many
// were new.
func (s *Store) Save(domain string, records []models.Record) (int, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const q = `INSERT INTO records (domain, fiscal_year, area_key, prefecture, area, source, sheet, fields)
		VALUES (:domain, :fiscal_year, :area_key, :prefecture, :area, :source, :sheet, :fields)
		ON CONFLICT (domain, fiscal_year, area_key) DO NOTHING`

	inserted := 0
	for _, r := range records {
		fields, err := json.Marshal(r.FieldMap())
		if err != nil {
			return 0, fmt.Errorf("encode fields: %w", err)
		}
		areaKey := r.Area
		if areaKey == "" {
			areaKey = r.Prefecture
		}
		res, err := tx.NamedExec(q, StoredRecord{
			Domain:     domain,
			FiscalYear: r.FiscalYear,
			AreaKey:    areaKey,
			Prefecture: r.Prefecture,
			Area:       r.Area,
			Source:     r.Source,
			Sheet:      r.Sheet,
			Fields:     string(fields),
		})
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", r.Key(), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// List returns the stored records of domain and fiscal year, ordered by key.
func (s *Store) List(domain string, fiscalYear int) ([]StoredRecord, error) {
	var out []StoredRecord
	err := s.db.Select(&out,
		`SELECT domain, fiscal_year, area_key, prefecture, area, source, sheet, fields
		FROM records WHERE domain = ? AND fiscal_year = ? ORDER BY area_key`,
		domain, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}
