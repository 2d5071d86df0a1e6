package amortization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referencePayment is a row from a published amortization table.
type referencePayment struct {
	Rank      int
	Payment   float64
	Principal float64
	Interest  float64
	Balance   float64
}

// referenceSchedule covers $175,000 at 4.5% over 360 months.
// Calculator: https://www.fidelitygroup.com/amortizing-loan-calculator
func referenceSchedule() []referencePayment {
	return []referencePayment{
		{1, 886.70, 230.45, 656.25, 174769.55},
		{2, 886.70, 231.31, 655.39, 174538.24},
		{3, 886.70, 232.18, 654.52, 174306.06},
		{4, 886.70, 233.05, 653.65, 174073.00},
		{5, 886.70, 233.93, 652.77, 173839.08},
		{6, 886.70, 234.80, 651.90, 173604.28},
		{7, 886.70, 235.68, 651.02, 173368.59},
		{8, 886.70, 236.57, 650.13, 173132.03},
		{9, 886.70, 237.45, 649.25, 172894.57},
		{10, 886.70, 238.34, 648.35, 172656.23},
		{11, 886.70, 239.24, 647.46, 172416.99},
		{12, 886.70, 240.14, 646.56, 172176.85},
		{24, 886.70, 251.17, 635.53, 169224.01},
		{36, 886.70, 262.71, 623.99, 166135.52},
		{60, 886.70, 287.40, 599.30, 159526.36},
		{120, 886.70, 359.76, 526.94, 140156.51},
		{180, 886.70, 450.35, 436.35, 115909.42},
		{240, 886.70, 563.75, 322.95, 85557.02},
		{300, 886.70, 705.70, 181.00, 47562.00},
		{359, 886.70, 880.09, 6.61, 883.39},
		{360, 886.70, 883.39, 3.31, 0.00},
	}
}

func TestGenerateSchedule_MatchesReferenceTable(t *testing.T) {
	inputs := LoanInputs{Principal: 175000, AnnualInterestRate: 4.5, TermMonths: 360}
	schedule := generate(t, inputs, nil)
	require.Len(t, schedule.Rows, 360)

	// Cent rounding drifts by well under a dollar over thirty years; the last
	// row absorbs it.
	const tolerance = 1.00
	for _, ref := range referenceSchedule() {
		row := schedule.Rows[ref.Rank-1]
		assert.InDelta(t, ref.Payment, row.Payment, tolerance, "rank %d payment", ref.Rank)
		assert.InDelta(t, ref.Principal, row.Principal, tolerance, "rank %d principal", ref.Rank)
		assert.InDelta(t, ref.Interest, row.Interest, tolerance, "rank %d interest", ref.Rank)
		assert.InDelta(t, ref.Balance, row.RemainingBalance, tolerance, "rank %d balance", ref.Rank)
	}

	for _, ref := range referenceSchedule()[:12] {
		row := schedule.Rows[ref.Rank-1]
		assert.Equal(t, ref.Payment, row.Payment, "first year rank %d matches to the cent", ref.Rank)
		assert.Equal(t, ref.Interest, row.Interest, "first year rank %d matches to the cent", ref.Rank)
	}
	assert.Equal(t, 0.0, schedule.Rows[359].RemainingBalance)
}
