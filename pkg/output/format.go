// Package output provides utilities for formatting and displaying amortization results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/internal/schedule"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is the serializable form of a schedule result with dates rendered
// as YYYY-MM-DD.
type Report struct {
	Inputs   ReportInputs  `json:"inputs"`
	Rows     []ReportRow   `json:"rows"`
	Summary  ReportSummary `json:"summary"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ReportInputs echoes the parsed loan parameters.
type ReportInputs struct {
	Principal           float64 `json:"principal"`
	AnnualInterestRate  float64 `json:"annualInterestRate"`
	TermMonths          int     `json:"termMonths"`
	AnnualInsuranceRate float64 `json:"annualInsuranceRate"`
	StartDate           string  `json:"startDate"`
}

// ReportRow is one schedule row.
type ReportRow struct {
	Rank             int     `json:"rank"`
	DueDate          string  `json:"dueDate"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	AdditionalCosts  float64 `json:"additionalCosts"`
	RemainingBalance float64 `json:"remainingBalance"`
	Overridden       bool    `json:"overridden,omitempty"`
}

// ReportSummary holds the schedule totals.
type ReportSummary struct {
	Payments             int     `json:"payments"`
	OverriddenRows       int     `json:"overriddenRows"`
	BasePayment          float64 `json:"basePayment"`
	TotalPayment         float64 `json:"totalPayment"`
	TotalPrincipal       float64 `json:"totalPrincipal"`
	TotalInterest        float64 `json:"totalInterest"`
	TotalAdditionalCosts float64 `json:"totalAdditionalCosts"`
	FinalBalance         float64 `json:"finalBalance"`
	PayoffDate           string  `json:"payoffDate,omitempty"`
}

// NewReport converts a result into its serializable form.
func NewReport(result schedule.Result) Report {
	report := Report{
		Inputs: ReportInputs{
			Principal:           result.Inputs.Principal,
			AnnualInterestRate:  result.Inputs.AnnualInterestRate,
			TermMonths:          result.Inputs.TermMonths,
			AnnualInsuranceRate: result.Inputs.AnnualInsuranceRate,
			StartDate:           formatDate(result.Schedule.StartDate),
		},
		Rows:     NewReportRows(result.Schedule.Rows),
		Warnings: result.Warnings,
	}

	s := result.Summary
	report.Summary = ReportSummary{
		Payments:             s.Payments,
		OverriddenRows:       s.OverriddenRows,
		BasePayment:          s.BasePayment,
		TotalPayment:         s.TotalPayment,
		TotalPrincipal:       s.TotalPrincipal,
		TotalInterest:        s.TotalInterest,
		TotalAdditionalCosts: s.TotalAdditionalCosts,
		FinalBalance:         s.FinalBalance,
		PayoffDate:           formatDate(s.PayoffDate),
	}
	return report
}

// NewReportRows converts schedule rows.
func NewReportRows(rows []amortization.Row) []ReportRow {
	out := make([]ReportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReportRow{
			Rank:             row.Rank,
			DueDate:          formatDate(row.DueDate),
			Payment:          row.Payment,
			Principal:        row.Principal,
			Interest:         row.Interest,
			AdditionalCosts:  row.AdditionalCosts,
			RemainingBalance: row.RemainingBalance,
			Overridden:       row.Overridden,
		})
	}
	return out
}

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result schedule.Result, currency string) error {
	p := message.NewPrinter(language.English)
	in := result.Inputs
	s := result.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "--- Amortization of %s at %s over %d months ---\n",
		format.Currency(in.Principal, currency), format.Percent(in.AnnualInterestRate), in.TermMonths)
	if in.AnnualInsuranceRate > 0 {
		fmt.Fprintf(&b, "Insurance rate: %s\n", format.Percent(in.AnnualInsuranceRate))
	}
	fmt.Fprintf(&b, "Rank | Due date   | Payment      | Principal    | Interest     | Costs      | Balance        | Notes\n")
	fmt.Fprintf(&b, "____ | __________ | ____________ | ____________ | ____________ | __________ | ______________ | _____\n")
	for _, row := range result.Schedule.Rows {
		note := ""
		if row.Overridden {
			note = "override"
		}
		_, _ = p.Fprintf(&b, "%4d | %s | %12.2f | %12.2f | %12.2f | %10.2f | %14.2f | %s\n",
			row.Rank, formatDate(row.DueDate), row.Payment, row.Principal, row.Interest,
			row.AdditionalCosts, row.RemainingBalance, note)
	}

	fmt.Fprintf(&b, "\nMonthly payment: %s\n", format.Currency(s.BasePayment, currency))
	fmt.Fprintf(&b, "Payments: %d (%d overridden)\n", s.Payments, s.OverriddenRows)
	fmt.Fprintf(&b, "Total paid: %s\n", format.Currency(s.TotalPayment, currency))
	fmt.Fprintf(&b, "Total principal: %s\n", format.Currency(s.TotalPrincipal, currency))
	fmt.Fprintf(&b, "Total interest: %s\n", format.Currency(s.TotalInterest, currency))
	fmt.Fprintf(&b, "Total additional costs: %s\n", format.Currency(s.TotalAdditionalCosts, currency))
	if !s.PayoffDate.IsZero() {
		fmt.Fprintf(&b, "Paid off: %s\n", formatDate(s.PayoffDate))
	} else {
		fmt.Fprintf(&b, "Remaining balance: %s\n", format.Currency(s.FinalBalance, currency))
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat writes the inputs followed by one record per schedule row in
// comma-separated value format.
func CsvFormat(w io.Writer, result schedule.Result) error {
	cw := csv.NewWriter(w)
	in := result.Inputs

	records := [][]string{
		{"principal", formatAmount(in.Principal)},
		{"annual interest rate", strconv.FormatFloat(in.AnnualInterestRate, 'f', -1, 64)},
		{"term months", strconv.Itoa(in.TermMonths)},
		{"annual insurance rate", strconv.FormatFloat(in.AnnualInsuranceRate, 'f', -1, 64)},
		{"rank", "due date", "payment", "principal", "interest", "additional costs", "remaining balance", "overridden"},
	}
	for _, row := range result.Schedule.Rows {
		records = append(records, []string{
			strconv.Itoa(row.Rank),
			formatDate(row.DueDate),
			formatAmount(row.Payment),
			formatAmount(row.Principal),
			formatAmount(row.Interest),
			formatAmount(row.AdditionalCosts),
			formatAmount(row.RemainingBalance),
			strconv.FormatBool(row.Overridden),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CsvString returns the CSV rendering of result.
func CsvString(result schedule.Result) string {
	var b strings.Builder
	if err := CsvFormat(&b, result); err != nil {
		return ""
	}
	return b.String()
}

// JSONFormat writes the indented JSON Report of result.
func JSONFormat(w io.Writer, result schedule.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(result)); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// Write renders result in the named format.
func Write(w io.Writer, outputFormat string, result schedule.Result, currency string) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return JSONFormat(w, result)
	default:
		return PrettyFormat(w, result, currency)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return datetime.FormatDate(t)
}
