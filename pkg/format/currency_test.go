package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		symbol   string
		expected string
	}{
		{"Default symbol", 1234.5, "", "€1,234.50"},
		{"Dollar", 599.55, "$", "$599.55"},
		{"Millions", 1234567.891, "$", "$1,234,567.89"},
		{"Negative", -1234.56, "€", "-€1,234.56"},
		{"Negative rounding to zero", -0.001, "€", "€0.00"},
		{"Zero", 0, "€", "€0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, tt.symbol); got != tt.expected {
				t.Errorf("Currency(%v, %q) = %q, expected %q", tt.amount, tt.symbol, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(6); got != "6.000%" {
		t.Errorf("Percent(6) = %q, expected 6.000%%", got)
	}
	if got := Percent(0.36); got != "0.360%" {
		t.Errorf("Percent(0.36) = %q, expected 0.360%%", got)
	}
}
