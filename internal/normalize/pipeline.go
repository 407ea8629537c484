package normalize

import (
	"log/slog"
	"strings"

	"sheetnorm/pkg/contracts/domain"
)

// DefaultHeaderScanDepth bounds how many leading rows are examined when
// locating a sheet's header row. Real exports often carry a title or a
// few metadata lines above the table.
const DefaultHeaderScanDepth = 8

// Options tune the engine. Zero values fall back to the named defaults.
type Options struct {
	FuzzyThreshold  float64
	HeaderScanDepth int
}

// Engine is the per-sheet normalization pipeline: header mapping, numeric
// parsing, row filtering, and in-sheet deduplication. It is safe for
// concurrent use; the synonym table is immutable and injected.
type Engine struct {
	table     *SynonymTable
	threshold float64
	scanDepth int
	logger    *slog.Logger
}

// NewEngine builds an engine around a synonym table. A nil logger falls
// back to the default slog logger.
func NewEngine(table *SynonymTable, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := opts.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	scanDepth := opts.HeaderScanDepth
	if scanDepth <= 0 {
		scanDepth = DefaultHeaderScanDepth
	}
	return &Engine{
		table:     table,
		threshold: threshold,
		scanDepth: scanDepth,
		logger:    logger.With("component", "normalize"),
	}
}

// Table returns the injected synonym table.
func (e *Engine) Table() *SynonymTable {
	return e.table
}

// SheetResult is the outcome of normalizing one sheet.
type SheetResult struct {
	Records []domain.CanonicalRecord
	Report  domain.SheetReport
	Mapping *domain.MappingTable
}

// NormalizeSheet runs the full pipeline on one sheet: locate the header
// row, fix the mapping once, classify and parse every data row, and
// collapse byte-identical records within the sheet. A sheet that yields no
// accepted rows is reported empty, never an error.
func (e *Engine) NormalizeSheet(sheet domain.SheetData) *SheetResult {
	result := &SheetResult{
		Report: domain.SheetReport{
			SourceFile: sheet.SourceFile,
			SheetName:  sheet.SheetName,
			SheetIndex: sheet.SheetIndex,
		},
	}

	headerIdx := e.FindHeaderRow(sheet.Grid)
	if headerIdx < 0 {
		result.Report.Empty = true
		e.logger.Warn("sheet has no usable header row",
			"file", sheet.SourceFile,
			"sheet", sheet.SheetName)
		return result
	}
	result.Report.HeaderRow = headerIdx + 1

	headers := headerTexts(sheet.Grid[headerIdx])
	mapping, ambiguities := e.MapHeaders(headers)
	result.Mapping = mapping
	result.Report.Ambiguities = ambiguities
	for _, amb := range ambiguities {
		e.logger.Warn("two headers resolve to the same field, keeping the first",
			"file", sheet.SourceFile,
			"sheet", sheet.SheetName,
			"field", amb.CanonicalField,
			"kept", amb.KeptHeader,
			"demoted", amb.DemotedHeader)
	}

	seen := make(map[string]struct{})
	for i, row := range sheet.Grid[headerIdx+1:] {
		rowNum := headerIdx + 2 + i

		if reason, drop := e.Classify(row, mapping); drop {
			result.Report.RecordDrop(reason)
			continue
		}

		rec := e.buildRecord(sheet, mapping, row, rowNum, &result.Report)

		fp := rec.Fingerprint()
		if _, dup := seen[fp]; dup {
			result.Report.Deduplicated++
			continue
		}
		seen[fp] = struct{}{}
		result.Records = append(result.Records, rec)
	}

	result.Report.Accepted = len(result.Records)
	if result.Report.Accepted == 0 {
		result.Report.Empty = true
		e.logger.Warn("sheet produced no records after filtering",
			"file", sheet.SourceFile,
			"sheet", sheet.SheetName,
			"dropped", result.Report.TotalDropped())
	}
	return result
}

// buildRecord parses one accepted row into a canonical record. Unparsable
// numerics become nulls and are counted on the report.
func (e *Engine) buildRecord(sheet domain.SheetData, mapping *domain.MappingTable, row domain.RawRow, rowNum int, report *domain.SheetReport) domain.CanonicalRecord {
	rec := domain.CanonicalRecord{
		SourceFile: sheet.SourceFile,
		SheetName:  sheet.SheetName,
		RowIndex:   rowNum,
		Values:     make(map[string]*float64, mapping.MappedCount()),
	}

	for _, col := range mapping.Columns {
		cell := row.Cell(col.Position)
		if col.IsMapped() {
			v, ok := ParseNumber(cell)
			if !ok {
				report.Unparsable++
				e.logger.Debug("unparsable numeric cell",
					"file", sheet.SourceFile,
					"sheet", sheet.SheetName,
					"row", rowNum,
					"column", col.RawHeader,
					"value", cell.String())
			}
			rec.Values[col.Canonical] = v
			continue
		}

		if text := strings.TrimSpace(cell.String()); text != "" {
			if rec.Passthrough == nil {
				rec.Passthrough = make(map[string]string)
			}
			rec.Passthrough[col.Output] = text
		}
	}

	return rec
}

// FindHeaderRow scans the leading rows for the first one where at least one
// cell resolves to a canonical field. When nothing maps within the scan
// depth it falls back to the first non-blank row, and returns -1 only for
// sheets with no content at all.
func (e *Engine) FindHeaderRow(grid []domain.RawRow) int {
	depth := e.scanDepth
	if depth > len(grid) {
		depth = len(grid)
	}

	firstNonBlank := -1
	for i := 0; i < depth; i++ {
		if isBlankRow(grid[i]) {
			continue
		}
		if firstNonBlank < 0 {
			firstNonBlank = i
		}
		table, _ := e.MapHeaders(headerTexts(grid[i]))
		if table.MappedCount() > 0 {
			return i
		}
	}
	if firstNonBlank >= 0 {
		return firstNonBlank
	}

	// nothing mapped and nothing non-blank within the scan window; a sheet
	// that still has rows further down gets its first non-blank row
	for i := depth; i < len(grid); i++ {
		if !isBlankRow(grid[i]) {
			return i
		}
	}
	return -1
}

// headerTexts renders a row into header strings.
func headerTexts(row domain.RawRow) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = cell.String()
	}
	return out
}
