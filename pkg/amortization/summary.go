package amortization

import (
	"time"

	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Summary aggregates a schedule.
type Summary struct {
	Payments             int       `json:"payments"`
	OverriddenRows       int       `json:"overriddenRows"`
	BasePayment          float64   `json:"basePayment"`
	TotalPayment         float64   `json:"totalPayment"`
	TotalPrincipal       float64   `json:"totalPrincipal"`
	TotalInterest        float64   `json:"totalInterest"`
	TotalAdditionalCosts float64   `json:"totalAdditionalCosts"`
	FinalBalance         float64   `json:"finalBalance"`
	PayoffDate           time.Time `json:"payoffDate"`
}

// Summarize totals the schedule rows. Totals are accumulated in decimal so
// hundreds of rounded rows still add up to the cent.
func (s Schedule) Summarize() Summary {
	summary := Summary{
		Payments:    len(s.Rows),
		BasePayment: s.BasePayment,
	}

	payment, principal, interest, costs := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, row := range s.Rows {
		payment = payment.Add(decimal.NewFromFloat(row.Payment))
		principal = principal.Add(decimal.NewFromFloat(row.Principal))
		interest = interest.Add(decimal.NewFromFloat(row.Interest))
		costs = costs.Add(decimal.NewFromFloat(row.AdditionalCosts))
		if row.Overridden {
			summary.OverriddenRows++
		}
	}
	summary.TotalPayment = mathutil.Round(payment.InexactFloat64())
	summary.TotalPrincipal = mathutil.Round(principal.InexactFloat64())
	summary.TotalInterest = mathutil.Round(interest.InexactFloat64())
	summary.TotalAdditionalCosts = mathutil.Round(costs.InexactFloat64())

	if n := len(s.Rows); n > 0 {
		last := s.Rows[n-1]
		summary.FinalBalance = last.RemainingBalance
		if last.RemainingBalance <= 0 {
			summary.PayoffDate = last.DueDate
		}
	}
	return summary
}
