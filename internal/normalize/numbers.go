package normalize

import (
	"strconv"
	"strings"

	"sheetnorm/pkg/contracts/domain"
)

// notAvailableTokens are cell texts that mean "no value". They parse to
// null without counting as unparsable.
var notAvailableTokens = map[string]struct{}{
	"n/a":  {},
	"na":   {},
	"n.a.": {},
	"nan":  {},
	"-":    {},
	"--":   {},
}

// Magnitude suffixes accepted after the digit run, case-insensitive.
const (
	suffixThousand = 1e3
	suffixMillion  = 1e6
	suffixBillion  = 1e9
)

// ParseNumber converts a cell into its numeric value. Three outcomes:
// a number (value, true); a legitimate null such as a blank cell or an n/a
// token (nil, true); or unparsable text (nil, false), which callers count
// in diagnostics. Natively numeric cells pass through unchanged.
func ParseNumber(cell domain.CellValue) (*float64, bool) {
	switch cell.Kind {
	case domain.CellKindBlank:
		return nil, true
	case domain.CellKindNumber:
		v := cell.Number
		return &v, true
	}
	return parseNumericText(cell.Text)
}

// parseNumericText applies the grammar for decorated numbers: accounting
// parentheses, currency symbols, an explicit sign, thousands commas, then
// either a trailing percent or a magnitude suffix, around a plain digit
// run. Parentheses dominate any explicit sign.
func parseNumericText(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if _, ok := notAvailableTokens[strings.ToLower(s)]; ok {
		return nil, true
	}

	negative := false
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// leading currency symbols and at most one sign, in either order
	seenSign := false
	for s != "" {
		if sym := leadingCurrency(s); sym != "" {
			s = strings.TrimSpace(strings.TrimPrefix(s, sym))
			continue
		}
		if !seenSign && (s[0] == '+' || s[0] == '-') {
			if s[0] == '-' {
				negative = true
			}
			seenSign = true
			s = strings.TrimSpace(s[1:])
			continue
		}
		break
	}
	if s == "" {
		return nil, false
	}

	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	percent := false
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	} else if m, ok := magnitudeSuffix(s); ok {
		multiplier = m
		s = strings.TrimSpace(s[:len(s)-1])
	}

	if !isPlainNumber(s) {
		return nil, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}

	if percent {
		v /= 100
	}
	v *= multiplier
	if negative {
		v = -v
	}
	return &v, true
}

// leadingCurrency returns the currency symbol s starts with, if any.
func leadingCurrency(s string) string {
	for _, sym := range []string{"$", "€", "£"} {
		if strings.HasPrefix(s, sym) {
			return sym
		}
	}
	return ""
}

// magnitudeSuffix reads a trailing k/m/b multiplier.
func magnitudeSuffix(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	switch s[len(s)-1] {
	case 'k', 'K':
		return suffixThousand, true
	case 'm', 'M':
		return suffixMillion, true
	case 'b', 'B':
		return suffixBillion, true
	}
	return 0, false
}

// isPlainNumber accepts a digit run with at most one decimal point. It is
// stricter than strconv.ParseFloat on purpose: exponents, hex floats, and
// inf/nan spellings stay unparsable.
func isPlainNumber(s string) bool {
	sawDigit := false
	sawDot := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			sawDigit = true
		case s[i] == '.':
			if sawDot {
				return false
			}
			sawDot = true
		default:
			return false
		}
	}
	return sawDigit
}

// IsNullish reports whether the cell reads as "no value": blank, empty
// text, or a not-available token. The row filter uses this to tell truly
// blank rows from summary rows.
func IsNullish(cell domain.CellValue) bool {
	switch cell.Kind {
	case domain.CellKindBlank:
		return true
	case domain.CellKindNumber:
		return false
	}
	text := strings.TrimSpace(cell.Text)
	if text == "" {
		return true
	}
	_, ok := notAvailableTokens[strings.ToLower(text)]
	return ok
}
