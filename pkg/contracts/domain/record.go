package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// CanonicalRecord is one accepted row after normalization. Canonical fields
// hold parsed numbers (nil means null); unmapped columns survive as text
// under their normalized header names. Provenance lives on the record, never
// inside the canonical fields themselves.
type CanonicalRecord struct {
	SourceFile  string              `json:"source_file"`
	SheetName   string              `json:"sheet_name"`
	RowIndex    int                 `json:"row_index"`
	Values      map[string]*float64 `json:"values"`
	Passthrough map[string]string   `json:"passthrough,omitempty"`
}

// Float64 returns a pointer to v, for building nullable canonical values.
func Float64(v float64) *float64 {
	return &v
}

// Value returns the canonical field's value and whether it is non-null.
func (r CanonicalRecord) Value(field string) (float64, bool) {
	v, ok := r.Values[field]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Fingerprint returns a sha256 fingerprint over the record's content in a
// canonical serialization. Provenance is excluded so byte-identical rows
// within one sheet collapse regardless of their physical position.
func (r CanonicalRecord) Fingerprint() string {
	var b strings.Builder

	keys := make([]string, 0, len(r.Values))
	for k := range r.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		if v := r.Values[k]; v != nil {
			b.WriteString(strconv.FormatFloat(*v, 'g', -1, 64))
		} else {
			b.WriteString("null")
		}
		b.WriteByte(';')
	}

	pkeys := make([]string, 0, len(r.Passthrough))
	for k := range r.Passthrough {
		pkeys = append(pkeys, k)
	}
	sort.Strings(pkeys)
	for _, k := range pkeys {
		b.WriteString("p:")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.Passthrough[k])
		b.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Dataset is the merged output of a whole run: records in deterministic
// order plus the column order writers must honor.
type Dataset struct {
	Records     []CanonicalRecord `json:"records"`
	Fields      []string          `json:"fields"`
	Passthrough []string          `json:"passthrough,omitempty"`
}

// Columns returns the full output column order: canonical fields in synonym
// table order, then passthrough columns.
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, len(d.Fields)+len(d.Passthrough))
	cols = append(cols, d.Fields...)
	cols = append(cols, d.Passthrough...)
	return cols
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.Records)
}
