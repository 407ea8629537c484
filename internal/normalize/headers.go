package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"sheetnorm/pkg/contracts/domain"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy header match.
// The matcher is deliberately conservative: an unmatched header passes
// through unchanged, which is cheaper to fix than a silently wrong mapping.
const DefaultFuzzyThreshold = 0.80

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormalizeHeader canonicalizes header text for comparison: lowercase,
// punctuation folded to spaces, whitespace runs collapsed. "Vacancy %" and
// "vacancy%" normalize identically.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reNonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// levenshtein computes the edit distance between two strings by rune.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// similarity scores two normalized strings in [0,1] as one minus the edit
// distance over the longer length.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// MapHeaders resolves a sheet's raw headers against the synonym table. The
// result is fixed for the whole sheet: at most one column per canonical
// field, with later claimants demoted to passthrough and reported as
// ambiguities. Mapping is pure and deterministic.
func (e *Engine) MapHeaders(headers []string) (*domain.MappingTable, []domain.MappingAmbiguity) {
	table := &domain.MappingTable{Columns: make([]domain.ColumnMapping, 0, len(headers))}
	var ambiguities []domain.MappingAmbiguity

	claimedBy := make(map[string]int, len(headers))
	usedNames := make(map[string]bool, e.table.Len()+len(headers))
	for _, f := range e.table.Fields() {
		usedNames[f] = true
	}

	for i, raw := range headers {
		norm := NormalizeHeader(raw)
		canonical, method, score := e.resolve(norm)

		if canonical != "" {
			if first, taken := claimedBy[canonical]; taken {
				ambiguities = append(ambiguities, domain.MappingAmbiguity{
					CanonicalField: canonical,
					KeptHeader:     headers[first],
					DemotedHeader:  raw,
				})
			} else {
				claimedBy[canonical] = i
				table.Columns = append(table.Columns, domain.ColumnMapping{
					Position:   i,
					RawHeader:  raw,
					Normalized: norm,
					Canonical:  canonical,
					Output:     canonical,
					Method:     method,
					Score:      score,
				})
				continue
			}
		}

		name := norm
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if usedNames[name] {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		usedNames[name] = true
		table.Columns = append(table.Columns, domain.ColumnMapping{
			Position:   i,
			RawHeader:  raw,
			Normalized: norm,
			Output:     name,
			Method:     domain.MatchPassthrough,
		})
	}

	return table, ambiguities
}

// resolve matches one normalized header: exact synonym first, then the best
// fuzzy candidate at or above the threshold. Fuzzy ties keep the earliest
// registered field.
func (e *Engine) resolve(norm string) (string, domain.MatchMethod, float64) {
	if norm == "" {
		return "", domain.MatchPassthrough, 0
	}

	for _, ent := range e.table.entries {
		if ent.text == norm {
			return ent.canonical, domain.MatchExact, 1
		}
	}

	bestScore := -1.0
	bestIdx := -1
	for i, ent := range e.table.entries {
		if s := similarity(norm, ent.text); s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestScore >= e.threshold {
		return e.table.entries[bestIdx].canonical, domain.MatchFuzzy, bestScore
	}

	return "", domain.MatchPassthrough, 0
}
