package domain

// MatchMethod tells how a raw header resolved to its output field.
type MatchMethod string

const (
	MatchExact       MatchMethod = "exact"
	MatchFuzzy       MatchMethod = "fuzzy"
	MatchPassthrough MatchMethod = "passthrough"
)

// ColumnMapping binds one sheet column to one output field.
type ColumnMapping struct {
	Position   int         `json:"position"`
	RawHeader  string      `json:"raw_header"`
	Normalized string      `json:"normalized"`
	Canonical  string      `json:"canonical,omitempty"`
	Output     string      `json:"output"`
	Method     MatchMethod `json:"method"`
	Score      float64     `json:"score"`
}

// IsMapped reports whether the column resolved to a canonical field rather
// than passing through under its own name.
func (c ColumnMapping) IsMapped() bool {
	return c.Canonical != ""
}

// MappingTable is the fixed header resolution for one sheet. It also serves
// as the header snapshot the row filter compares data rows against: at most
// one column per canonical field, established once per sheet.
type MappingTable struct {
	Columns []ColumnMapping `json:"columns"`
}

// Mapped returns the columns bound to canonical fields, in column order.
func (t *MappingTable) Mapped() []ColumnMapping {
	out := make([]ColumnMapping, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.IsMapped() {
			out = append(out, c)
		}
	}
	return out
}

// MappedCount returns how many columns resolved to canonical fields.
func (t *MappingTable) MappedCount() int {
	n := 0
	for _, c := range t.Columns {
		if c.IsMapped() {
			n++
		}
	}
	return n
}

// Lookup finds the column bound to the given canonical field.
func (t *MappingTable) Lookup(canonical string) (ColumnMapping, bool) {
	for _, c := range t.Columns {
		if c.Canonical == canonical {
			return c, true
		}
	}
	return ColumnMapping{}, false
}

// MappingAmbiguity records two raw headers competing for the same canonical
// field. The first header keeps the mapping; the second passes through.
type MappingAmbiguity struct {
	CanonicalField string `json:"canonical_field"`
	KeptHeader     string `json:"kept_header"`
	DemotedHeader  string `json:"demoted_header"`
}
