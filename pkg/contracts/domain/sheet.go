package domain

// RawRow is one physical sheet row with cells positionally aligned to the
// sheet's header row. Rows shorter than the header are legal; Cell treats
// the missing tail as blank.
type RawRow []CellValue

// Cell returns the cell at column position i, or a blank cell when the row
// does not reach that position.
func (r RawRow) Cell(i int) CellValue {
	if i < 0 || i >= len(r) {
		return BlankCell()
	}
	return r[i]
}

// SheetData is one worksheet read from an input workbook, carrying enough
// provenance to order and trace every row it produces.
type SheetData struct {
	SourceFile string   `json:"source_file"`
	SheetName  string   `json:"sheet_name"`
	SheetIndex int      `json:"sheet_index"`
	Grid       []RawRow `json:"-"`
}

// IsEmpty reports whether the sheet has no rows at all.
func (s SheetData) IsEmpty() bool {
	return len(s.Grid) == 0
}
