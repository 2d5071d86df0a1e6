// Package schedule turns a loan request, as entered in a config file or
// form, into a computed amortization schedule with its summary and any
// non-fatal warnings.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/internal/config"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/validation"
	"go.uber.org/zap"
)

// Request holds the raw loan values and override rows for one calculation.
type Request struct {
	Loan         amortization.RawLoanInputs `json:"inputs"`
	Overrides    []amortization.RawOverride `json:"overrides,omitempty"`
	StartDate    string                     `json:"startDate,omitempty"`
	MaxOverrides int                        `json:"-"`
}

// Result holds everything computed for a Request.
type Result struct {
	Inputs    amortization.LoanInputs
	Overrides []amortization.Override
	Schedule  amortization.Schedule
	Summary   amortization.Summary
	Warnings  []string
	Duration  time.Duration
}

// FromConfig builds the Request described by a loan configuration.
func FromConfig(conf config.Configuration) Request {
	return Request{
		Loan:         conf.Loan,
		Overrides:    conf.Overrides,
		StartDate:    conf.StartDate,
		MaxOverrides: conf.MaxOverrides,
	}
}

// Compute parses req and generates its schedule. Invalid loan inputs and
// degenerate schedules are returned as errors; problems with the start date,
// insurance rate or override rows only produce warnings. now supplies the
// current time when no start date is given.
func Compute(logger *zap.Logger, req Request, now func() time.Time) (Result, error) {
	const op = "schedule.Compute"
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	start := time.Now()

	var result Result

	inputs, err := amortization.ParseLoanInputs(req.Loan)
	if err != nil {
		return result, err
	}
	result.Inputs = inputs

	if warning := validation.InsuranceRateWarning(req.Loan.InsuranceRate); warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	opts := []amortization.Option{amortization.WithClock(now)}
	if warning, err := validation.ValidateStartDate(req.StartDate); err != nil {
		result.Warnings = append(result.Warnings, warning)
	} else if strings.TrimSpace(req.StartDate) != "" {
		startDate, _ := datetime.ParseDate(req.StartDate)
		opts = append(opts, amortization.WithStartDate(startDate))
	}

	validator := validation.OverrideValidator{TermMonths: inputs.TermMonths, MaxOverrides: req.MaxOverrides}
	rows, limitWarnings := validator.Limit(req.Overrides)
	result.Warnings = append(result.Warnings, limitWarnings...)
	result.Warnings = append(result.Warnings, validator.ValidateAll(rows)...)

	overrides, _ := amortization.ParseOverrides(rows)
	result.Overrides = amortization.NormalizeOverrides(overrides)

	generator := amortization.NewScheduleGenerator(logger, opts...)
	sched, err := generator.GenerateSchedule(inputs, overrides)
	if err != nil {
		return result, err
	}
	result.Schedule = sched
	result.Summary = sched.Summarize()
	result.Duration = time.Since(start)

	for _, warning := range result.Warnings {
		logger.Debug(warning, zap.String("op", op))
	}
	logger.Debug(fmt.Sprintf("computed %d rows with %d overrides", len(sched.Rows), len(result.Overrides)),
		zap.String("op", op),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// GetSchedule computes the schedule for a loan configuration.
func GetSchedule(logger *zap.Logger, conf config.Configuration) (Result, error) {
	result, err := Compute(logger, FromConfig(conf), time.Now)
	if err != nil {
		return result, fmt.Errorf("failed to compute schedule: %w", err)
	}
	return result, nil
}
