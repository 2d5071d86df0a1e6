// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero on the shortest decimal representation of the
// value, so 1.005 becomes 1.01 rather than falling victim to binary error.
func Round(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	rounded := decimal.NewFromFloat(val).Round(constants.DecimalPlaces).InexactFloat64()
	if rounded == 0 {
		// Avoid emitting -0.00.
		return 0
	}
	return rounded
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// Sum adds currency values with decimal arithmetic and rounds the total.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return Round(total.InexactFloat64())
}

// Sub subtracts b from a with decimal arithmetic and rounds the result.
func Sub(a, b float64) float64 {
	return Round(decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64())
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// PercentToMonthlyRate converts an annual percentage rate into a monthly
// decimal rate, e.g. 6 becomes 0.005.
func PercentToMonthlyRate(annualPercent float64) float64 {
	return annualPercent / constants.PercentageMultiplier / constants.MonthsPerYear
}
