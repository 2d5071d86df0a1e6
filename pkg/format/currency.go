// Package format renders currency amounts for human consumption.
package format

import (
	"fmt"
	"math"
	"strings"
)

// DefaultSymbol is used when no currency symbol is configured.
const DefaultSymbol = "€"

// Currency returns a currency string with the given symbol and thousands
// separators (e.g., "-€1,234.56"). An empty symbol uses DefaultSymbol.
func Currency(amount float64, symbol string) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// Percent renders an annual rate such as 6 as "6.000%".
func Percent(rate float64) string {
	return fmt.Sprintf("%.3f%%", rate)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
