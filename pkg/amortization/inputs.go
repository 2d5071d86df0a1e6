package amortization

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"go.uber.org/multierr"
)

// Field names used in InvalidInputs errors.
const (
	FieldPrincipal     = "principal"
	FieldInterestRate  = "interestRate"
	FieldTermMonths    = "termMonths"
	FieldInsuranceRate = "insuranceRate"
)

// LoanInputs holds the validated parameters of a loan. Rates are annual
// percentages, e.g. 6 for 6%.
type LoanInputs struct {
	Principal           float64 `json:"principal" yaml:"principal"`
	AnnualInterestRate  float64 `json:"annualInterestRate" yaml:"annualInterestRate"`
	TermMonths          int     `json:"termMonths" yaml:"termMonths"`
	AnnualInsuranceRate float64 `json:"annualInsuranceRate" yaml:"annualInsuranceRate"`
}

// Validate checks the principal, rate and term, stopping at the first problem.
func (in LoanInputs) Validate() error {
	if !mathutil.IsFinite(in.Principal) || in.Principal <= 0 {
		return invalidInput(FieldPrincipal, "must be a positive number, got %v", in.Principal)
	}
	if !mathutil.IsFinite(in.AnnualInterestRate) || in.AnnualInterestRate <= 0 {
		return invalidInput(FieldInterestRate, "must be a positive number, got %v", in.AnnualInterestRate)
	}
	if in.TermMonths <= 0 {
		return invalidInput(FieldTermMonths, "must be a positive number of months, got %d", in.TermMonths)
	}
	if in.TermMonths > constants.MaxTermMonths {
		return invalidInput(FieldTermMonths, "must be at most %d months, got %d", constants.MaxTermMonths, in.TermMonths)
	}
	return nil
}

// MonthlyRate returns the periodic interest rate as a decimal fraction.
func (in LoanInputs) MonthlyRate() float64 {
	return mathutil.PercentToMonthlyRate(in.AnnualInterestRate)
}

// InsuranceRateValid reports whether the insurance rate can be used as given.
// An invalid rate is not an error; it is treated as zero.
func (in LoanInputs) InsuranceRateValid() bool {
	return mathutil.IsFinite(in.AnnualInsuranceRate) && in.AnnualInsuranceRate >= 0
}

// MonthlyInsuranceRate returns the periodic insurance rate, or 0 when the
// configured rate is absent or invalid.
func (in LoanInputs) MonthlyInsuranceRate() float64 {
	if !in.InsuranceRateValid() {
		return 0
	}
	return mathutil.PercentToMonthlyRate(in.AnnualInsuranceRate)
}

// RawLoanInputs holds loan parameters exactly as they were typed into a form
// or config file. TermYears is only consulted when TermMonths is empty.
type RawLoanInputs struct {
	Principal     string `json:"principal" yaml:"principal" mapstructure:"principal"`
	InterestRate  string `json:"interestRate" yaml:"interestRate" mapstructure:"interestRate"`
	TermMonths    string `json:"termMonths,omitempty" yaml:"termMonths,omitempty" mapstructure:"termMonths"`
	TermYears     string `json:"termYears,omitempty" yaml:"termYears,omitempty" mapstructure:"termYears"`
	InsuranceRate string `json:"insuranceRate,omitempty" yaml:"insuranceRate,omitempty" mapstructure:"insuranceRate"`
}

// ParseLoanInputs converts raw form values into LoanInputs. Every bad field
// is reported, combined into a single InvalidInputs error. A missing or
// unparsable insurance rate becomes 0.
func ParseLoanInputs(raw RawLoanInputs) (LoanInputs, error) {
	var inputs LoanInputs
	var errs error

	principal, err := parsePositive(FieldPrincipal, raw.Principal)
	errs = multierr.Append(errs, err)
	inputs.Principal = principal

	rate, err := parsePositive(FieldInterestRate, raw.InterestRate)
	errs = multierr.Append(errs, err)
	inputs.AnnualInterestRate = rate

	term, err := parseTerm(raw.TermMonths, raw.TermYears)
	errs = multierr.Append(errs, err)
	inputs.TermMonths = term

	if insurance, ok := ParseNumber(raw.InsuranceRate); ok && insurance >= 0 {
		inputs.AnnualInsuranceRate = insurance
	}

	if errs != nil {
		return LoanInputs{}, combineInvalid(errs)
	}
	return inputs, nil
}

// ParseNumber parses a trimmed decimal string and reports whether it held a
// finite number.
func ParseNumber(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !mathutil.IsFinite(n) {
		return 0, false
	}
	return n, true
}

// ParseWholeNumber parses an integer, also accepting decimal notation for
// whole values such as "360.0".
func ParseWholeNumber(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, true
	}
	f, ok := ParseNumber(trimmed)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func parsePositive(field, value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, invalidInput(field, "is required")
	}
	n, ok := ParseNumber(value)
	if !ok {
		return 0, invalidInput(field, "%q is not a number", value)
	}
	if n <= 0 {
		return 0, invalidInput(field, "must be positive, got %v", n)
	}
	return n, nil
}

func parseTerm(months, years string) (int, error) {
	if strings.TrimSpace(months) == "" && strings.TrimSpace(years) != "" {
		y, ok := ParseWholeNumber(years)
		if !ok {
			return 0, invalidInput(FieldTermMonths, "term in years %q is not a whole number", years)
		}
		if y <= 0 {
			return 0, invalidInput(FieldTermMonths, "term in years must be positive, got %d", y)
		}
		if y > constants.MaxTermMonths/constants.MonthsPerYear {
			return 0, invalidInput(FieldTermMonths, "term in years must be at most %d, got %d",
				constants.MaxTermMonths/constants.MonthsPerYear, y)
		}
		return y * constants.MonthsPerYear, nil
	}
	if strings.TrimSpace(months) == "" {
		return 0, invalidInput(FieldTermMonths, "is required")
	}
	n, ok := ParseWholeNumber(months)
	if !ok {
		return 0, invalidInput(FieldTermMonths, "%q is not a whole number", months)
	}
	if n <= 0 {
		return 0, invalidInput(FieldTermMonths, "must be positive, got %d", n)
	}
	if n > constants.MaxTermMonths {
		return 0, invalidInput(FieldTermMonths, "must be at most %d months, got %d", constants.MaxTermMonths, n)
	}
	return n, nil
}

func combineInvalid(errs error) error {
	all := multierr.Errors(errs)
	if len(all) == 1 {
		return all[0]
	}
	fields := make([]string, 0, len(all))
	for _, e := range all {
		if calcErr, ok := e.(*CalculationError); ok {
			fields = append(fields, calcErr.Field)
		}
	}
	return &CalculationError{
		Kind:    KindInvalidInputs,
		Message: fmt.Sprintf("%d invalid fields (%s)", len(all), strings.Join(fields, ", ")),
		Err:     errs,
	}
}
