package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"sheetnorm/internal/config"
	"sheetnorm/pkg/contracts/domain"
)

// WorkbookExporter writes the merged cleaned workbook: one sheet holding
// every accepted record, canonical fields as native numeric cells, then
// passthrough text, then a trailing provenance column.
type WorkbookExporter struct {
	baseDir string
	logger  *slog.Logger
}

// NewWorkbookExporter creates a merged workbook exporter.
func NewWorkbookExporter(baseDir string, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		baseDir: baseDir,
		logger:  logger.With("component", "exporter"),
	}
}

// ExportWorkbook streams the dataset into an xlsx file. Rows go out in
// dataset order; null values stay empty cells rather than zeros.
func (e *WorkbookExporter) ExportWorkbook(dataset *domain.Dataset, outputPath string) error {
	fullPath := outputPath
	if !filepath.IsAbs(outputPath) {
		fullPath = filepath.Join(e.baseDir, outputPath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), config.MergedSheetName)

	sw, err := f.NewStreamWriter(config.MergedSheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	columns := dataset.Columns()
	header := make([]interface{}, 0, len(columns)+1)
	for _, col := range columns {
		header = append(header, col)
	}
	header = append(header, config.SourceFileColumn)

	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := sw.SetRow(cell, header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range dataset.Records {
		row := make([]interface{}, 0, len(columns)+1)
		for _, field := range dataset.Fields {
			if v := rec.Values[field]; v != nil {
				row = append(row, *v)
			} else {
				row = append(row, nil)
			}
		}
		for _, name := range dataset.Passthrough {
			if text, ok := rec.Passthrough[name]; ok {
				row = append(row, text)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, rec.SourceFile)

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream writer: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", fullPath, err)
	}

	e.logger.Info("merged workbook written",
		"file", fullPath,
		"records", len(dataset.Records),
		"columns", len(columns)+1)
	return nil
}
