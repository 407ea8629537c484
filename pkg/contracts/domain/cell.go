package domain

import "strconv"

// CellKind discriminates the value held by a CellValue.
type CellKind string

const (
	CellKindText   CellKind = "text"
	CellKindNumber CellKind = "number"
	CellKindBlank  CellKind = "blank"
)

// CellValue is a single spreadsheet cell: free text, a natively numeric
// value, or blank. Workbook readers tag numeric cells so downstream
// parsing never has to re-guess what the file format already knew.
type CellValue struct {
	Kind   CellKind `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Number float64  `json:"number,omitempty"`
}

// NewTextCell creates a text cell.
func NewTextCell(s string) CellValue {
	return CellValue{Kind: CellKindText, Text: s}
}

// NewNumberCell creates a natively numeric cell.
func NewNumberCell(v float64) CellValue {
	return CellValue{Kind: CellKindNumber, Number: v}
}

// BlankCell creates an empty cell.
func BlankCell() CellValue {
	return CellValue{Kind: CellKindBlank}
}

// IsBlank reports whether the cell holds no value at all.
func (c CellValue) IsBlank() bool {
	return c.Kind == CellKindBlank
}

// IsText reports whether the cell holds text.
func (c CellValue) IsText() bool {
	return c.Kind == CellKindText
}

// IsNumber reports whether the cell holds a native number.
func (c CellValue) IsNumber() bool {
	return c.Kind == CellKindNumber
}

// AsText returns the text content, false when the cell is not text.
func (c CellValue) AsText() (string, bool) {
	if c.Kind != CellKindText {
		return "", false
	}
	return c.Text, true
}

// AsNumber returns the numeric content, false when the cell is not numeric.
func (c CellValue) AsNumber() (float64, bool) {
	if c.Kind != CellKindNumber {
		return 0, false
	}
	return c.Number, true
}

// String renders the cell the way it would appear in a sheet. Blank cells
// render empty; numbers use the shortest exact representation.
func (c CellValue) String() string {
	switch c.Kind {
	case CellKindText:
		return c.Text
	case CellKindNumber:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	default:
		return ""
	}
}
