// Package workbook loads raw sheet grids from xlsx files. It is the only
// package that touches excelize for reading; everything downstream works
// on domain.SheetData.
package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "sheetnorm/internal/errors"
	"sheetnorm/pkg/contracts/domain"
)

// rawValues keeps number formats out of cell values: a cell holding 0.15
// styled as "15%" reads back as "0.15".
var rawValues = excelize.Options{RawCellValue: true}

// Reader implements normalize.SheetReader over xlsx workbooks.
type Reader struct {
	logger *slog.Logger
}

// NewReader builds a workbook reader. A nil logger falls back to the
// default slog logger.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With("component", "workbook")}
}

// ReadSheets loads every sheet of one workbook in workbook order. Sheets
// come back fully materialized; provenance carries the file base name.
func (r *Reader) ReadSheets(ctx context.Context, path string) ([]domain.SheetData, error) {
	f, err := excelize.OpenFile(path, rawValues)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	base := filepath.Base(path)
	names := f.GetSheetList()
	sheets := make([]domain.SheetData, 0, len(names))

	for idx, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		grid, err := r.readGrid(f, name)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q of %s", name, base), err)
		}
		sheets = append(sheets, domain.SheetData{
			SourceFile: base,
			SheetName:  name,
			SheetIndex: idx,
			Grid:       grid,
		})
	}

	r.logger.Debug("workbook read", "file", base, "sheets", len(sheets))
	return sheets, nil
}

func (r *Reader) readGrid(f *excelize.File, sheet string) ([]domain.RawRow, error) {
	rows, err := f.GetRows(sheet, rawValues)
	if err != nil {
		return nil, err
	}

	grid := make([]domain.RawRow, len(rows))
	for ri, cells := range rows {
		row := make(domain.RawRow, len(cells))
		for ci, raw := range cells {
			row[ci] = r.cellValue(f, sheet, ci, ri, raw)
		}
		grid[ri] = row
	}
	return grid, nil
}

// cellValue types one raw cell. Plain numeric cells carry no explicit type
// attribute in xlsx, so both the number type and the unset type get a
// float parse; strings stay text even when they look numeric, the
// normalizer owns that interpretation.
func (r *Reader) cellValue(f *excelize.File, sheet string, col, row int, raw string) domain.CellValue {
	if raw == "" {
		return domain.BlankCell()
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return domain.NewTextCell(raw)
	}
	ct, err := f.GetCellType(sheet, ref)
	if err != nil {
		return domain.NewTextCell(raw)
	}

	switch ct {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if v, perr := strconv.ParseFloat(raw, 64); perr == nil {
			return domain.NewNumberCell(v)
		}
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return domain.NewNumberCell(1)
		}
		return domain.NewNumberCell(0)
	}
	return domain.NewTextCell(raw)
}
