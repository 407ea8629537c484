package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetnorm/pkg/contracts/domain"
)

func textRow(texts ...string) domain.RawRow {
	row := make(domain.RawRow, len(texts))
	for i, s := range texts {
		row[i] = domain.NewTextCell(s)
	}
	return row
}

func TestClassifyBlankRows(t *testing.T) {
	engine := NewEngine(DefaultTable(), Options{}, nil)
	mapping, _ := engine.MapHeaders([]string{"City", "Vacancy %", "Rent"})

	tests := []struct {
		name string
		row  domain.RawRow
		want bool
	}{
		{"empty strings", textRow("", "", ""), true},
		{"whitespace only", textRow("  ", "\t", ""), true},
		{"not-available tokens", textRow("n/a", "-", "--"), true},
		{"blank cells", domain.RawRow{domain.BlankCell(), domain.BlankCell()}, true},
		{"zero-length row", domain.RawRow{}, true},
		{"one real value", textRow("", "0.15", ""), false},
		{"zero is a value", domain.RawRow{domain.NewNumberCell(0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, dropped := engine.Classify(tt.row, mapping)
			if tt.want {
				assert.True(t, dropped)
				assert.Equal(t, domain.DropBlank, reason)
			} else {
				if dropped {
					assert.NotEqual(t, domain.DropBlank, reason)
				}
			}
		})
	}
}

func TestClassifyDuplicateHeader(t *testing.T) {
	engine := NewEngine(DefaultTable(), Options{}, nil)
	headers := []string{"City", "Vacancy %", "Rent"}
	mapping, _ := engine.MapHeaders(headers)

	t.Run("verbatim header repeat", func(t *testing.T) {
		reason, dropped := engine.Classify(textRow("City", "Vacancy %", "Rent"), mapping)
		require.True(t, dropped)
		assert.Equal(t, domain.DropDuplicateHeader, reason)
	})

	t.Run("case and punctuation folded", func(t *testing.T) {
		reason, dropped := engine.Classify(textRow("anything", "VACANCY%", "  rent  "), mapping)
		require.True(t, dropped)
		assert.Equal(t, domain.DropDuplicateHeader, reason)
	})

	t.Run("wins over summary for all-text rows", func(t *testing.T) {
		// a header repeat has no parseable numbers, so the low-population
		// signal would also fire; the duplicate reason must win
		reason, _ := engine.Classify(textRow("City", "Vacancy %", "Rent"), mapping)
		assert.Equal(t, domain.DropDuplicateHeader, reason)
	})

	t.Run("numeric cell at a mapped position is not a header", func(t *testing.T) {
		row := domain.RawRow{
			domain.NewTextCell("Downtown"),
			domain.NewNumberCell(0.12),
			domain.NewTextCell("Rent"),
		}
		_, dropped := engine.Classify(row, mapping)
		assert.False(t, dropped)
	})

	t.Run("one mismatched mapped column is data", func(t *testing.T) {
		reason, dropped := engine.Classify(textRow("City", "Vacancy %", "1200"), mapping)
		if dropped {
			assert.NotEqual(t, domain.DropDuplicateHeader, reason)
		}
	})
}

func TestClassifySummaryRows(t *testing.T) {
	engine := NewEngine(DefaultTable(), Options{}, nil)
	mapping, _ := engine.MapHeaders([]string{"City", "Vacancy %", "Rent"})

	t.Run("keyword rows", func(t *testing.T) {
		tests := []struct {
			name string
			row  domain.RawRow
		}{
			{"bare total", textRow("Total", "", "")},
			{"grand total with year", textRow("Grand Total 2024", "12%", "1,500")},
			{"subtotal with region", textRow("Subtotal (East)", "0.10", "900")},
			{"average row", textRow("Average", "11%", "1,050")},
			{"keyword after leading blanks", textRow("", "Totals", "")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				reason, dropped := engine.Classify(tt.row, mapping)
				require.True(t, dropped)
				assert.Equal(t, domain.DropSummary, reason)
			})
		}
	})

	t.Run("keyword must lead the first populated cell", func(t *testing.T) {
		_, dropped := engine.Classify(textRow("123 Main St", "15%", "Total"), mapping)
		assert.False(t, dropped)
	})

	t.Run("keyword as a longer word is data", func(t *testing.T) {
		_, dropped := engine.Classify(textRow("Totally Occupied Plaza", "15%", "1,200"), mapping)
		assert.False(t, dropped)
	})

	t.Run("low population drops", func(t *testing.T) {
		// two mapped columns, zero parseable numbers
		reason, dropped := engine.Classify(textRow("East Region", "see note", "tbd"), mapping)
		require.True(t, dropped)
		assert.Equal(t, domain.DropSummary, reason)
	})

	t.Run("exactly half populated is kept", func(t *testing.T) {
		_, dropped := engine.Classify(textRow("123 Main St", "15%", "pending"), mapping)
		assert.False(t, dropped)
	})

	t.Run("nulls do not count as populated", func(t *testing.T) {
		reason, dropped := engine.Classify(textRow("East Region", "n/a", "n/a"), mapping)
		require.True(t, dropped)
		assert.Equal(t, domain.DropSummary, reason)
	})

	t.Run("no mapped columns disables the population signal", func(t *testing.T) {
		passthroughOnly, _ := engine.MapHeaders([]string{"Notes", "Owner"})
		_, dropped := engine.Classify(textRow("needs follow-up", "ACME"), passthroughOnly)
		assert.False(t, dropped)

		// the keyword signal still applies
		reason, dropped := engine.Classify(textRow("Total", "ACME"), passthroughOnly)
		require.True(t, dropped)
		assert.Equal(t, domain.DropSummary, reason)
	})
}

func TestClassifyOrder(t *testing.T) {
	engine := NewEngine(DefaultTable(), Options{}, nil)
	mapping, _ := engine.MapHeaders([]string{"City", "Vacancy %", "Rent"})

	// blank wins over everything, including rows that would also read as
	// low-population summaries
	reason, dropped := engine.Classify(textRow("", "", ""), mapping)
	require.True(t, dropped)
	assert.Equal(t, domain.DropBlank, reason)

	// accepted rows report no reason
	reason, dropped = engine.Classify(textRow("123 Main St", "15%", "$1,200"), mapping)
	assert.False(t, dropped)
	assert.Empty(t, string(reason))
}
