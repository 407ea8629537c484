package exporter

import (
	"fmt"

	"sheetnorm/internal/summary"
)

// summaryHeaders is the fixed column order of the field summary CSV.
var summaryHeaders = []string{"field", "count", "nulls", "mean", "median", "stddev", "min", "max"}

// SummaryExporter writes per-field statistics as the field summary CSV,
// one row per canonical field.
type SummaryExporter struct {
	csvWriter *CSVWriter
	bom       bool
}

// NewSummaryExporter creates a field summary exporter.
func NewSummaryExporter(baseDir string, bom bool) *SummaryExporter {
	return &SummaryExporter{
		csvWriter: NewCSVWriter(baseDir),
		bom:       bom,
	}
}

// ExportFieldStats writes the statistics rows in the order given. Fields
// with no non-null values come out with empty statistic cells.
func (e *SummaryExporter) ExportFieldStats(fieldStats []summary.FieldStats, outputPath string) error {
	records := make([][]string, 0, len(fieldStats))
	for _, fs := range fieldStats {
		records = append(records, []string{
			fs.Field,
			formatInt(int64(fs.Count)),
			formatInt(int64(fs.Nulls)),
			formatValue(fs.Mean),
			formatValue(fs.Median),
			formatValue(fs.StdDev),
			formatValue(fs.Min),
			formatValue(fs.Max),
		})
	}

	if err := e.csvWriter.WriteCSV(outputPath, WriteOptions{
		Headers:   summaryHeaders,
		Records:   records,
		BOMPrefix: e.bom,
	}); err != nil {
		return fmt.Errorf("failed to write field summary: %w", err)
	}

	return nil
}
