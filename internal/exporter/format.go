package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat renders a float for CSV output without losing precision.
// Plain decimal notation only; 0.15 stays "0.15" and 1200 stays "1200".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue renders a nullable canonical value, nil as empty.
func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}
