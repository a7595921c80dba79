package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is one extracted field. Number is nil when nothing was found.
type Value struct {
	Field  string
	Number *float64
}

// Record is one extracted row: an area identity plus field values.
type Record struct {
	// FiscalYear is the fiscal year the record belongs to.
	FiscalYear int
	// Prefecture is the canonical prefecture name, if known.
	Prefecture string
	// Area is the composite identity of a municipality row, or the
	// prefecture name for prefecture rows in list sheets. Empty for
	// settlement cards.
	Area string
	// Source is the originating file name.
	Source string
	// Sheet is the originating sheet name.
	Sheet string
	// Values holds one entry per configured field, in schema order.
	Values []Value
}

// NewRecord creates a record with a null value for every field.
func NewRecord(fiscalYear int, source, sheet string, fields []string) Record {
	vals := make([]Value, len(fields))
	for i, f := range fields {
		vals[i] = Value{Field: f}
	}
	return Record{
		FiscalYear: fiscalYear,
		Source:     source,
		Sheet:      sheet,
		Values:     vals,
	}
}

// Key returns the deduplication key: fiscal year plus area, falling back to
// the prefecture when the area is empty.
func (r Record) Key() string {
	id := r.Area
	if id == "" {
		id = r.Prefecture
	}
	return strconv.Itoa(r.FiscalYear) + "-" + id
}

// Get returns the value of field, if present and non-null.
func (r Record) Get(field string) (float64, bool) {
	for _, v := range r.Values {
		if v.Field == field && v.Number != nil {
			return *v.Number, true
		}
	}
	return 0, false
}

// Set stores n for field unless the field already has a value.
// It reports whether the value was stored.
func (r *Record) Set(field string, n float64) bool {
	for i := range r.Values {
		if r.Values[i].Field != field {
			continue
		}
		if r.Values[i].Number != nil {
			return false
		}
		r.Values[i].Number = &n
		return true
	}
	r.Values = append(r.Values, Value{Field: field, Number: &n})
	return true
}

// HasData reports whether at least one field is non-null.
func (r Record) HasData() bool {
	for _, v := range r.Values {
		if v.Number != nil {
			return true
		}
	}
	return false
}

// MarshalJSON writes the record as a flat object with a stable key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, val any) error {
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}

	if err := write("fiscal_year", r.FiscalYear); err != nil {
		return nil, err
	}
	if err := write("prefecture", r.Prefecture); err != nil {
		return nil, err
	}
	if r.Area != "" {
		if err := write("area", r.Area); err != nil {
			return nil, err
		}
	}
	if err := write("source", r.Source); err != nil {
		return nil, err
	}
	if r.Sheet != "" {
		if err := write("sheet", r.Sheet); err != nil {
			return nil, err
		}
	}
	for _, v := range r.Values {
		if err := write(v.Field, v.Number); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FieldMap returns the values as a map, with nil for missing fields.
func (r Record) FieldMap() map[string]*float64 {
	m := make(map[string]*float64, len(r.Values))
	for _, v := range r.Values {
		m[v.Field] = v.Number
	}
	return m
}
