package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/loan-amortization/internal/schedule"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
)

func testResult(t *testing.T) schedule.Result {
	t.Helper()
	req := schedule.Request{
		Loan:      amortization.RawLoanInputs{Principal: "10000", InterestRate: "12", TermMonths: "12"},
		StartDate: "2025-01-01",
		Overrides: []amortization.RawOverride{
			{
				Rank:             "3",
				DueDate:          "2025-04-01",
				Payment:          "1000",
				Principal:        "900",
				Interest:         "100",
				AdditionalCosts:  "0",
				RemainingBalance: "7500",
			},
			{Rank: "x"},
		},
	}
	result, err := schedule.Compute(nil, req, func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) })
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return result
}

func TestPrettyFormat(t *testing.T) {
	result := testResult(t)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, result, "$"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Amortization of $10,000.00 at 12.000% over 12 months ---",
		"Rank | Due date   | Payment",
		"2025-02-01",
		"888.49",
		"7,500.00",
		"override",
		"Monthly payment: $888.49",
		"Payments: 12 (1 overridden)",
		"Paid off: 2026-01-01",
		"Warning: override row 2 ignored",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	result := testResult(t)

	reader := csv.NewReader(strings.NewReader(CsvString(result)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}

	if records[0][0] != "principal" || records[0][1] != "10000.00" {
		t.Errorf("unexpected principal record: %v", records[0])
	}
	if records[2][1] != "12" {
		t.Errorf("unexpected term record: %v", records[2])
	}
	header := records[4]
	if header[0] != "rank" || header[7] != "overridden" {
		t.Errorf("unexpected header: %v", header)
	}

	rows := records[5:]
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	if rows[0][1] != "2025-02-01" || rows[0][2] != "888.49" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[2][6] != "7500.00" || rows[2][7] != "true" {
		t.Errorf("unexpected override row: %v", rows[2])
	}
	if rows[11][6] != "0.00" {
		t.Errorf("expected final balance 0.00, got %s", rows[11][6])
	}
}

func TestJSONFormat(t *testing.T) {
	result := testResult(t)

	var buf bytes.Buffer
	if err := JSONFormat(&buf, result); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(report.Rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(report.Rows))
	}
	if report.Inputs.StartDate != "2025-01-01" {
		t.Errorf("expected start date 2025-01-01, got %q", report.Inputs.StartDate)
	}
	if report.Rows[0].DueDate != "2025-02-01" {
		t.Errorf("expected first due date 2025-02-01, got %q", report.Rows[0].DueDate)
	}
	if !report.Rows[2].Overridden {
		t.Error("expected row 3 to be overridden")
	}
	if report.Summary.PayoffDate != "2026-01-01" {
		t.Errorf("expected payoff date 2026-01-01, got %q", report.Summary.PayoffDate)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", report.Warnings)
	}
}

func TestWrite(t *testing.T) {
	result := testResult(t)

	tests := []struct {
		format string
		prefix string
	}{
		{"pretty", "--- Amortization"},
		{"csv", "principal,10000.00"},
		{"json", "{"},
		{"", "--- Amortization"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.format, result, ""); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("expected output to start with %q, got %q", tt.prefix, buf.String()[:40])
			}
		})
	}
}

func TestNewReportEmptyPayoff(t *testing.T) {
	report := NewReport(schedule.Result{})
	if report.Summary.PayoffDate != "" {
		t.Errorf("expected empty payoff date, got %q", report.Summary.PayoffDate)
	}
	if report.Rows == nil || len(report.Rows) != 0 {
		t.Errorf("expected an empty, non-nil row list")
	}
}
