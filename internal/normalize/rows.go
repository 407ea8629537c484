package normalize

import (
	"strings"

	"sheetnorm/pkg/contracts/domain"
)

// summaryKeywords mark aggregate rows when they lead the first populated
// cell. The set is bounded on purpose: broader matching starts eating real
// data rows whose first column merely mentions a keyword.
var summaryKeywords = []string{
	"grand total",
	"sub total",
	"subtotal",
	"totals",
	"total",
	"average",
	"avg",
	"summary",
}

// Classify decides a row's fate against the sheet's fixed mapping. Rules
// apply in order, first match wins: blank, duplicate header, summary.
// Accepted rows return ("", false). Classification never mutates the row.
func (e *Engine) Classify(row domain.RawRow, table *domain.MappingTable) (domain.DropReason, bool) {
	if isBlankRow(row) {
		return domain.DropBlank, true
	}
	if isDuplicateHeader(row, table) {
		return domain.DropDuplicateHeader, true
	}
	if isSummaryRow(row, table) {
		return domain.DropSummary, true
	}
	return "", false
}

// isBlankRow reports whether every cell reads as no value. A row of n/a
// tokens is blank, not summary.
func isBlankRow(row domain.RawRow) bool {
	for _, cell := range row {
		if !IsNullish(cell) {
			return false
		}
	}
	return true
}

// isDuplicateHeader detects the sheet's header row re-appearing inside the
// data: every mapped column's normalized text equals the normalized header
// at the same position. At least one mapped column is required, so sheets
// that map nothing never misfire here.
func isDuplicateHeader(row domain.RawRow, table *domain.MappingTable) bool {
	mapped := 0
	for _, col := range table.Columns {
		if !col.IsMapped() {
			continue
		}
		mapped++
		text, ok := row.Cell(col.Position).AsText()
		if !ok {
			return false
		}
		if NormalizeHeader(text) != col.Normalized {
			return false
		}
	}
	return mapped > 0
}

// isSummaryRow applies two signals: a summary keyword leading the first
// populated cell, or fewer than half of the mapped numeric columns holding
// parseable numbers.
func isSummaryRow(row domain.RawRow, table *domain.MappingTable) bool {
	for _, cell := range row {
		if IsNullish(cell) {
			continue
		}
		if text, ok := cell.AsText(); ok && matchesSummaryKeyword(NormalizeHeader(text)) {
			return true
		}
		break // only the first populated cell is checked
	}

	mapped := 0
	populated := 0
	for _, col := range table.Columns {
		if !col.IsMapped() {
			continue
		}
		mapped++
		if v, ok := ParseNumber(row.Cell(col.Position)); ok && v != nil {
			populated++
		}
	}
	if mapped == 0 {
		return false
	}
	return populated*2 < mapped
}

// matchesSummaryKeyword tests a normalized cell against the keyword set,
// exact or as the leading word(s).
func matchesSummaryKeyword(norm string) bool {
	for _, kw := range summaryKeywords {
		if norm == kw || strings.HasPrefix(norm, kw+" ") {
			return true
		}
	}
	return false
}
