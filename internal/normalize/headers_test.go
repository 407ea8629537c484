package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetnorm/pkg/contracts/domain"
)

func mustTable(t *testing.T, fields []FieldSynonyms) *SynonymTable {
	t.Helper()
	table, err := NewSynonymTable(fields)
	require.NoError(t, err)
	return table
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Vacancy Rate", "vacancy rate"},
		{"Vacancy %", "vacancy"},
		{"vacancy%", "vacancy"},
		{"  Total   Area  ", "total area"},
		{"Take-up", "take up"},
		{"Rent (USD/sqft)", "rent usd sqft"},
		{"NET_ABSORPTION", "net absorption"},
		{"***", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.input))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("rent", "rent"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 4, levenshtein("", "rent"))
	assert.Equal(t, 4, levenshtein("rent", ""))
	// runes, not bytes
	assert.Equal(t, 1, levenshtein("café", "cafe"))
}

func TestMapHeadersExactAndFuzzy(t *testing.T) {
	engine := NewEngine(DefaultTable(), Options{}, nil)

	tests := []struct {
		name       string
		header     string
		wantField  string
		wantMethod domain.MatchMethod
	}{
		{"declared synonym", "Vacancy Rate", "vacancy_rate", domain.MatchExact},
		{"case and punctuation folded", "VACANCY %", "vacancy_rate", domain.MatchExact},
		{"canonical name maps to itself", "vacancy_rate", "vacancy_rate", domain.MatchExact},
		{"typo within threshold", "Vacancyy", "vacancy_rate", domain.MatchFuzzy},
		{"similarity exactly at threshold", "areaa", "total_area", domain.MatchFuzzy},
		{"too distant falls through", "Vcncy", "", domain.MatchPassthrough},
		{"unrelated header falls through", "Notes", "", domain.MatchPassthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, ambiguities := engine.MapHeaders([]string{tt.header})
			require.Len(t, table.Columns, 1)
			assert.Empty(t, ambiguities)

			col := table.Columns[0]
			assert.Equal(t, tt.wantField, col.Canonical)
			assert.Equal(t, tt.wantMethod, col.Method)
			if tt.wantMethod == domain.MatchExact {
				assert.Equal(t, 1.0, col.Score)
			}
			if tt.wantMethod == domain.MatchFuzzy {
				assert.GreaterOrEqual(t, col.Score, DefaultFuzzyThreshold)
				assert.Less(t, col.Score, 1.0)
			}
		})
	}
}

func TestMapHeadersFirstClaimWins(t *testing.T) {
	engine := NewEngine(DefaultTable(), Options{}, nil)

	table, ambiguities := engine.MapHeaders([]string{"Vacancy", "Vacancy Rate", "Rent"})

	require.Len(t, ambiguities, 1)
	assert.Equal(t, "vacancy_rate", ambiguities[0].CanonicalField)
	assert.Equal(t, "Vacancy", ambiguities[0].KeptHeader)
	assert.Equal(t, "Vacancy Rate", ambiguities[0].DemotedHeader)

	require.Len(t, table.Columns, 3)
	assert.Equal(t, 2, table.MappedCount())

	kept := table.Columns[0]
	assert.Equal(t, "vacancy_rate", kept.Canonical)
	assert.Equal(t, 0, kept.Position)

	demoted := table.Columns[1]
	assert.False(t, demoted.IsMapped())
	assert.Equal(t, domain.MatchPassthrough, demoted.Method)
	assert.Equal(t, "vacancy rate", demoted.Output)

	assert.Equal(t, "asking_rent", table.Columns[2].Canonical)
}

func TestMapHeadersFuzzyTieKeepsEarlierField(t *testing.T) {
	table := mustTable(t, []FieldSynonyms{
		{Field: "alpha", Synonyms: []string{"aa"}},
		{Field: "beta", Synonyms: []string{"ab"}},
	})
	engine := NewEngine(table, Options{FuzzyThreshold: 0.5}, nil)

	mapped, _ := engine.MapHeaders([]string{"ac"})

	require.Len(t, mapped.Columns, 1)
	assert.Equal(t, "alpha", mapped.Columns[0].Canonical)
	assert.Equal(t, domain.MatchFuzzy, mapped.Columns[0].Method)
	assert.InDelta(t, 0.5, mapped.Columns[0].Score, 1e-9)
}

func TestMapHeadersPassthroughNaming(t *testing.T) {
	t.Run("empty header gets positional name", func(t *testing.T) {
		engine := NewEngine(DefaultTable(), Options{}, nil)

		table, _ := engine.MapHeaders([]string{"", "Notes", "Notes"})

		require.Len(t, table.Columns, 3)
		assert.Equal(t, "column_1", table.Columns[0].Output)
		assert.Equal(t, "notes", table.Columns[1].Output)
		assert.Equal(t, "notes_3", table.Columns[2].Output)
	})

	t.Run("passthrough never shadows a canonical field", func(t *testing.T) {
		table := mustTable(t, []FieldSynonyms{
			{Field: "rent", Synonyms: nil},
		})
		engine := NewEngine(table, Options{}, nil)

		mapped, ambiguities := engine.MapHeaders([]string{"Rent", "Rent", "rent!"})

		require.Len(t, ambiguities, 2)
		require.Len(t, mapped.Columns, 3)
		assert.Equal(t, "rent", mapped.Columns[0].Output)
		assert.True(t, mapped.Columns[0].IsMapped())
		assert.Equal(t, "rent_2", mapped.Columns[1].Output)
		assert.False(t, mapped.Columns[1].IsMapped())
		assert.Equal(t, "rent_3", mapped.Columns[2].Output)
	})
}

func TestMapHeadersDeterministic(t *testing.T) {
	engine := NewEngine(DefaultTable(), Options{}, nil)
	headers := []string{"Vacancy %", "Avg Rent", "Notes", "Vacancy", "", "GLA"}

	first, firstAmb := engine.MapHeaders(headers)
	for i := 0; i < 10; i++ {
		next, nextAmb := engine.MapHeaders(headers)
		assert.Equal(t, first, next)
		assert.Equal(t, firstAmb, nextAmb)
	}
}
