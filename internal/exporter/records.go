package exporter

import (
	"fmt"

	"sheetnorm/internal/config"
	"sheetnorm/pkg/contracts/domain"
)

// Provenance columns leading every combined records row.
const (
	sheetColumn = "sheet"
	rowColumn   = "row"
)

// RecordsExporter writes the combined records CSV: one row per accepted
// record, canonical fields in synonym table order, passthrough columns
// after them, provenance first.
type RecordsExporter struct {
	csvWriter *CSVWriter
	bom       bool
}

// NewRecordsExporter creates a combined records exporter.
func NewRecordsExporter(baseDir string, bom bool) *RecordsExporter {
	return &RecordsExporter{
		csvWriter: NewCSVWriter(baseDir),
		bom:       bom,
	}
}

// Headers returns the column order for the dataset.
func (e *RecordsExporter) Headers(dataset *domain.Dataset) []string {
	headers := make([]string, 0, 3+len(dataset.Fields)+len(dataset.Passthrough))
	headers = append(headers, config.SourceFileColumn, sheetColumn, rowColumn)
	headers = append(headers, dataset.Fields...)
	headers = append(headers, dataset.Passthrough...)
	return headers
}

// ExportRecords streams the dataset into one CSV file. Null canonical
// values and absent passthrough cells come out as empty strings.
func (e *RecordsExporter) ExportRecords(dataset *domain.Dataset, outputPath string) error {
	stream, err := e.csvWriter.CreateStream(outputPath, e.Headers(dataset), e.bom)
	if err != nil {
		return fmt.Errorf("failed to create records CSV: %w", err)
	}

	for i, rec := range dataset.Records {
		row := e.recordToCSVRow(dataset, rec)
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return stream.Close()
}

// recordToCSVRow renders one record in the dataset's column order.
func (e *RecordsExporter) recordToCSVRow(dataset *domain.Dataset, rec domain.CanonicalRecord) []string {
	row := make([]string, 0, 3+len(dataset.Fields)+len(dataset.Passthrough))
	row = append(row, rec.SourceFile, rec.SheetName, formatInt(int64(rec.RowIndex)))
	for _, field := range dataset.Fields {
		row = append(row, formatValue(rec.Values[field]))
	}
	for _, name := range dataset.Passthrough {
		row = append(row, rec.Passthrough[name])
	}
	return row
}
