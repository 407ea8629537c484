package normalize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	apperrors "sheetnorm/internal/errors"
)

// FieldSynonyms declares one canonical field and the raw header spellings
// that map to it.
type FieldSynonyms struct {
	Field    string
	Synonyms []string
}

// synonymEntry is one normalized synonym ready for matching, kept in
// registration order so earlier fields win ties.
type synonymEntry struct {
	canonical string
	text      string
}

// SynonymTable is the ordered, immutable mapping from canonical field names
// to raw header synonyms. Registration order is significant: when two
// synonyms score identically during fuzzy matching, the earlier field wins.
// The normalized canonical name itself always acts as an implicit synonym,
// so a table's own output headers map back to their fields.
type SynonymTable struct {
	fields  []FieldSynonyms
	entries []synonymEntry
	byField map[string]int
}

// NewSynonymTable builds a table from ordered field declarations. It
// rejects empty or duplicate canonical names and synonyms that normalize
// into more than one field, since those would make mapping ambiguous by
// construction.
func NewSynonymTable(fields []FieldSynonyms) (*SynonymTable, error) {
	t := &SynonymTable{
		fields:  make([]FieldSynonyms, 0, len(fields)),
		byField: make(map[string]int, len(fields)),
	}
	claimed := make(map[string]string)

	for _, f := range fields {
		if f.Field == "" {
			return nil, apperrors.NewConfigError("synonym table has a field with an empty name", nil)
		}
		if _, dup := t.byField[f.Field]; dup {
			return nil, apperrors.NewConfigError(fmt.Sprintf("canonical field %q declared twice", f.Field), nil)
		}
		t.byField[f.Field] = len(t.fields)
		t.fields = append(t.fields, FieldSynonyms{
			Field:    f.Field,
			Synonyms: append([]string(nil), f.Synonyms...),
		})

		// the canonical name matches itself, then the declared synonyms
		texts := append([]string{f.Field}, f.Synonyms...)
		for _, raw := range texts {
			norm := NormalizeHeader(raw)
			if norm == "" {
				continue
			}
			if owner, taken := claimed[norm]; taken {
				if owner != f.Field {
					return nil, apperrors.NewConfigError(
						fmt.Sprintf("synonym %q maps to both %q and %q", raw, owner, f.Field), nil)
				}
				continue
			}
			claimed[norm] = f.Field
			t.entries = append(t.entries, synonymEntry{canonical: f.Field, text: norm})
		}
	}

	if len(t.fields) == 0 {
		return nil, apperrors.NewConfigError("synonym table declares no fields", nil)
	}
	return t, nil
}

// Fields returns the canonical field names in registration order.
func (t *SynonymTable) Fields() []string {
	out := make([]string, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.Field
	}
	return out
}

// Synonyms returns the declared synonyms for a canonical field.
func (t *SynonymTable) Synonyms(field string) []string {
	i, ok := t.byField[field]
	if !ok {
		return nil
	}
	return append([]string(nil), t.fields[i].Synonyms...)
}

// Len returns the number of canonical fields.
func (t *SynonymTable) Len() int {
	return len(t.fields)
}

// Has reports whether the table declares the canonical field.
func (t *SynonymTable) Has(field string) bool {
	_, ok := t.byField[field]
	return ok
}

// ParseSynonyms decodes the external YAML representation: a mapping from
// canonical field name to a list of synonyms. Field order in the document
// is preserved as registration order.
func ParseSynonyms(data []byte) (*SynonymTable, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewConfigError("synonym table is not valid YAML", err)
	}

	fields := make([]FieldSynonyms, 0, len(doc))
	for _, item := range doc {
		name, ok := item.Key.(string)
		if !ok {
			return nil, apperrors.NewConfigError(fmt.Sprintf("synonym table key %v is not a string", item.Key), nil)
		}
		list, ok := item.Value.([]interface{})
		if !ok {
			return nil, apperrors.NewConfigError(fmt.Sprintf("synonyms for %q must be a list", name), nil)
		}
		syns := make([]string, 0, len(list))
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return nil, apperrors.NewConfigError(fmt.Sprintf("synonym %v for %q is not a string", v, name), nil)
			}
			syns = append(syns, s)
		}
		fields = append(fields, FieldSynonyms{Field: name, Synonyms: syns})
	}

	return NewSynonymTable(fields)
}

// EncodeYAML renders the table back into its external representation. The
// output round-trips through ParseSynonyms without loss, including field
// order.
func (t *SynonymTable) EncodeYAML() ([]byte, error) {
	doc := make(yaml.MapSlice, 0, len(t.fields))
	for _, f := range t.fields {
		doc = append(doc, yaml.MapItem{
			Key:   f.Field,
			Value: append([]string(nil), f.Synonyms...),
		})
	}
	return yaml.Marshal(doc)
}

// LoadSynonymsFile reads a synonym table from a YAML file.
func LoadSynonymsFile(path string) (*SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read synonyms file %s", path), err)
	}
	return ParseSynonyms(data)
}

// DefaultTable returns the built-in synonym table for commercial market
// sheets. Callers wanting different fields inject their own table.
func DefaultTable() *SynonymTable {
	t, err := NewSynonymTable([]FieldSynonyms{
		{Field: "vacancy_rate", Synonyms: []string{"Vacancy", "Vacancy %", "Vacancy Rate", "Vacancy Pct"}},
		{Field: "asking_rent", Synonyms: []string{"Rent", "Average Rent", "Avg Rent", "Asking Rent", "Rent (USD/sqft)"}},
		{Field: "net_absorption", Synonyms: []string{"Absorption", "Take-up", "Takeup", "Net Absorption"}},
		{Field: "total_area", Synonyms: []string{"Area", "Total Area", "GLA", "Floor Area"}},
	})
	if err != nil {
		panic(fmt.Sprintf("built-in synonym table is invalid: %v", err))
	}
	return t
}
