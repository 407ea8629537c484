// Package exporter writes the normalizer's output artifacts.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// RecordsExporter: Writes the combined records CSV, one row per accepted
// record with provenance columns leading the canonical fields.
//
// WorkbookExporter: Streams the merged cleaned workbook, a single sheet
// of all records with native numeric cells and a source file column.
//
// SummaryExporter: Writes the field summary CSV, one row of descriptive
// statistics per canonical field.
//
// Example usage:
//
//	// Export the combined records CSV
//	records := exporter.NewRecordsExporter("output", true)
//	err := records.ExportRecords(dataset, "normalized_records.csv")
//
//	// Export the merged workbook
//	workbook := exporter.NewWorkbookExporter("output", logger)
//	err = workbook.ExportWorkbook(dataset, "merged_cleaned.xlsx")
package exporter
