package amortization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseLoanInputs(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawLoanInputs
		expected LoanInputs
	}{
		{
			name:     "All fields",
			raw:      RawLoanInputs{Principal: "100000", InterestRate: "6", TermMonths: "360", InsuranceRate: "0.3"},
			expected: LoanInputs{Principal: 100000, AnnualInterestRate: 6, TermMonths: 360, AnnualInsuranceRate: 0.3},
		},
		{
			name:     "Whitespace and decimal term",
			raw:      RawLoanInputs{Principal: " 2500.50 ", InterestRate: "3.75", TermMonths: "120.0"},
			expected: LoanInputs{Principal: 2500.50, AnnualInterestRate: 3.75, TermMonths: 120},
		},
		{
			name:     "Term in years",
			raw:      RawLoanInputs{Principal: "1000", InterestRate: "5", TermYears: "25"},
			expected: LoanInputs{Principal: 1000, AnnualInterestRate: 5, TermMonths: 300},
		},
		{
			name:     "Months win over years",
			raw:      RawLoanInputs{Principal: "1000", InterestRate: "5", TermMonths: "12", TermYears: "25"},
			expected: LoanInputs{Principal: 1000, AnnualInterestRate: 5, TermMonths: 12},
		},
		{
			name:     "Non-numeric insurance is zero",
			raw:      RawLoanInputs{Principal: "1000", InterestRate: "5", TermMonths: "12", InsuranceRate: "abc"},
			expected: LoanInputs{Principal: 1000, AnnualInterestRate: 5, TermMonths: 12},
		},
		{
			name:     "Negative insurance is zero",
			raw:      RawLoanInputs{Principal: "1000", InterestRate: "5", TermMonths: "12", InsuranceRate: "-1"},
			expected: LoanInputs{Principal: 1000, AnnualInterestRate: 5, TermMonths: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, err := ParseLoanInputs(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, inputs)
		})
	}
}

func TestParseLoanInputs_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    RawLoanInputs
		fields []string
	}{
		{
			name:   "Missing principal",
			raw:    RawLoanInputs{InterestRate: "6", TermMonths: "360"},
			fields: []string{FieldPrincipal},
		},
		{
			name:   "Zero principal",
			raw:    RawLoanInputs{Principal: "0", InterestRate: "6", TermMonths: "360"},
			fields: []string{FieldPrincipal},
		},
		{
			name:   "Non-numeric rate",
			raw:    RawLoanInputs{Principal: "1000", InterestRate: "six", TermMonths: "360"},
			fields: []string{FieldInterestRate},
		},
		{
			name:   "NaN rate",
			raw:    RawLoanInputs{Principal: "1000", InterestRate: "NaN", TermMonths: "360"},
			fields: []string{FieldInterestRate},
		},
		{
			name:   "Fractional term",
			raw:    RawLoanInputs{Principal: "1000", InterestRate: "6", TermMonths: "12.5"},
			fields: []string{FieldTermMonths},
		},
		{
			name:   "Negative years",
			raw:    RawLoanInputs{Principal: "1000", InterestRate: "6", TermYears: "-2"},
			fields: []string{FieldTermMonths},
		},
		{
			name:   "Term past limit",
			raw:    RawLoanInputs{Principal: "100000", InterestRate: "6", TermMonths: "20000000"},
			fields: []string{FieldTermMonths},
		},
		{
			name:   "Years past limit",
			raw:    RawLoanInputs{Principal: "1000", InterestRate: "6", TermYears: "101"},
			fields: []string{FieldTermMonths},
		},
		{
			name:   "Years that would overflow",
			raw:    RawLoanInputs{Principal: "1000", InterestRate: "6", TermYears: "999999999999999999"},
			fields: []string{FieldTermMonths},
		},
		{
			name:   "Everything wrong",
			raw:    RawLoanInputs{Principal: "-1", InterestRate: "", TermMonths: "x"},
			fields: []string{FieldPrincipal, FieldInterestRate, FieldTermMonths},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLoanInputs(tt.raw)
			require.ErrorIs(t, err, ErrInvalidInputs)
			assert.Equal(t, KindInvalidInputs, KindOf(err))

			var calcErr *CalculationError
			require.ErrorAs(t, err, &calcErr)
			if len(tt.fields) == 1 {
				assert.Equal(t, tt.fields[0], calcErr.Field)
				return
			}

			causes := multierr.Errors(calcErr.Unwrap())
			require.Len(t, causes, len(tt.fields))
			for i, cause := range causes {
				var fieldErr *CalculationError
				require.ErrorAs(t, cause, &fieldErr)
				assert.Equal(t, tt.fields[i], fieldErr.Field)
			}
		})
	}
}

func TestLoanInputsRates(t *testing.T) {
	inputs := LoanInputs{Principal: 1, AnnualInterestRate: 12, TermMonths: 1, AnnualInsuranceRate: 1.2}
	assert.InDelta(t, 0.01, inputs.MonthlyRate(), 1e-12)
	assert.InDelta(t, 0.001, inputs.MonthlyInsuranceRate(), 1e-12)
	assert.True(t, inputs.InsuranceRateValid())

	inputs.AnnualInsuranceRate = -0.5
	assert.False(t, inputs.InsuranceRateValid())
	assert.Zero(t, inputs.MonthlyInsuranceRate())
}

func TestParseWholeNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"360.0", 360, true},
		{"-3", -3, true},
		{"1.5", 0, false},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseWholeNumber(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
