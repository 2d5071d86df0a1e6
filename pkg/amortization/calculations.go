// Package amortization computes month-by-month loan amortization schedules
// and reconciles them against known rows taken from real statements.
package amortization

import (
	"math"

	"github.com/iwvelando/loan-amortization/pkg/mathutil"
)

// CalculateMonthlyPayment calculates the payment that fully retires balance
// over the given number of months using the standard annuity formula. A
// periodic rate that is numerically zero falls back to linear amortization.
func CalculateMonthlyPayment(balance, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	n := float64(months)
	if monthlyRate == 0 {
		return balance / n
	}

	discountFactor := 1 - math.Pow(1+monthlyRate, -n)
	if discountFactor == 0 {
		return balance / n
	}
	return balance * monthlyRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(balance, monthlyRate float64) float64 {
	return balance * monthlyRate
}

// AmortizingPayment is CalculateMonthlyPayment with the degenerate cases
// turned into a DegenerateSchedule error.
func AmortizingPayment(balance, monthlyRate float64, months int) (float64, error) {
	payment := CalculateMonthlyPayment(balance, monthlyRate, months)
	if !mathutil.IsFinite(payment) || payment <= 0 {
		return 0, degenerate("payment for balance %.2f over %d months at monthly rate %g is %v",
			balance, months, monthlyRate, payment)
	}
	return payment, nil
}
