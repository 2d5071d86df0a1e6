package amortization

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"go.uber.org/zap"
)

// maxPreallocatedRows bounds the up-front allocation for very long terms.
const maxPreallocatedRows = 1200

// Row holds the values for a given month of the schedule.
type Row struct {
	Rank             int       `json:"rank"`
	DueDate          time.Time `json:"dueDate"`
	Payment          float64   `json:"payment"`
	Principal        float64   `json:"principal"`
	Interest         float64   `json:"interest"`
	AdditionalCosts  float64   `json:"additionalCosts"`
	RemainingBalance float64   `json:"remainingBalance"`
	Overridden       bool      `json:"overridden,omitempty"`
}

// Schedule is an ordered amortization schedule, one row per month starting
// at rank 1.
type Schedule struct {
	Rows        []Row     `json:"rows"`
	StartDate   time.Time `json:"startDate"`
	BasePayment float64   `json:"basePayment"`
}

// Option customizes a ScheduleGenerator.
type Option func(*ScheduleGenerator)

// WithStartDate sets the date the first due date is counted from. Row 1 is
// due one month after it.
func WithStartDate(start time.Time) Option {
	return func(g *ScheduleGenerator) {
		g.startDate = start
	}
}

// WithClock replaces time.Now when no start date is given.
func WithClock(now func() time.Time) Option {
	return func(g *ScheduleGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// ScheduleGenerator builds amortization schedules. It holds no state between
// calls and is safe for concurrent use.
type ScheduleGenerator struct {
	logger    *zap.Logger
	startDate time.Time
	now       func() time.Time
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger, opts ...Option) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &ScheduleGenerator{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ComputeSchedule builds the schedule for inputs reconciled against overrides
// without logging.
func ComputeSchedule(inputs LoanInputs, overrides []Override, opts ...Option) (Schedule, error) {
	return NewScheduleGenerator(nil, opts...).GenerateSchedule(inputs, overrides)
}

// GenerateSchedule creates the amortization schedule for a loan. Each
// override replaces the computed row of its rank verbatim and the payment is
// re-derived for the remaining term from the override's balance.
//
// Additional costs are charged on top of the principal and interest payment.
// They follow the live balance when an insurance rate is set; otherwise the
// additional costs of the latest override are carried forward.
func (g *ScheduleGenerator) GenerateSchedule(inputs LoanInputs, overrides []Override) (Schedule, error) {
	const op = "amortization.GenerateSchedule"

	if err := inputs.Validate(); err != nil {
		return Schedule{}, err
	}

	monthlyRate := inputs.MonthlyRate()
	insuranceRate := inputs.MonthlyInsuranceRate()
	if !inputs.InsuranceRateValid() {
		g.logger.Debug(fmt.Sprintf("treating invalid insurance rate %v as 0", inputs.AnnualInsuranceRate),
			zap.String("op", op),
		)
	}

	payment, err := AmortizingPayment(inputs.Principal, monthlyRate, inputs.TermMonths)
	if err != nil {
		return Schedule{}, err
	}

	start := g.startDate
	if start.IsZero() {
		start = datetime.FirstOfMonth(g.now())
	}

	capacity := inputs.TermMonths
	if capacity > maxPreallocatedRows {
		capacity = maxPreallocatedRows
	}
	schedule := Schedule{
		Rows:        make([]Row, 0, capacity),
		StartDate:   start,
		BasePayment: mathutil.Round(payment),
	}

	byRank := IndexOverrides(overrides)
	balance := mathutil.Round(inputs.Principal)
	anchor, anchorRank := start, 0
	pinnedCosts := 0.0

	for rank := 1; rank <= inputs.TermMonths; rank++ {
		if override, ok := byRank[rank]; ok {
			row := override.Row()
			schedule.Rows = append(schedule.Rows, row)
			balance = row.RemainingBalance
			pinnedCosts = row.AdditionalCosts
			anchor, anchorRank = row.DueDate, rank

			if balance <= 0 {
				g.logger.Debug(fmt.Sprintf("override at rank %d settles the loan", rank),
					zap.String("op", op),
				)
				break
			}

			payment, err = g.reamortize(balance, monthlyRate, inputs.TermMonths-rank)
			if err != nil {
				return Schedule{}, err
			}
			g.logger.Debug(fmt.Sprintf("applied override at rank %d, balance %.2f, new payment %.2f",
				rank, balance, payment),
				zap.String("op", op),
			)
			continue
		}

		if balance <= 0 {
			break
		}

		interest := mathutil.Round(CalculateInterestPayment(balance, monthlyRate))
		costs := pinnedCosts
		if insuranceRate > 0 {
			costs = mathutil.Round(balance * insuranceRate)
		}

		principal := mathutil.Max(mathutil.Sub(mathutil.Round(payment), interest), 0)
		if principal > balance || rank == inputs.TermMonths {
			// Final payment correction.
			principal = balance
		}
		balance = mathutil.Max(mathutil.Sub(balance, principal), 0)

		schedule.Rows = append(schedule.Rows, Row{
			Rank:             rank,
			DueDate:          datetime.AddMonths(anchor, rank-anchorRank),
			Payment:          mathutil.Sum(principal, interest, costs),
			Principal:        principal,
			Interest:         interest,
			AdditionalCosts:  costs,
			RemainingBalance: balance,
		})

		if balance <= 0 {
			break
		}
	}

	return schedule, nil
}

// reamortize derives the payment that retires balance over the remaining
// months. No months left means no further payment.
func (g *ScheduleGenerator) reamortize(balance, monthlyRate float64, remainingMonths int) (float64, error) {
	if remainingMonths <= 0 || balance <= 0 {
		return 0, nil
	}
	return AmortizingPayment(balance, monthlyRate, remainingMonths)
}
