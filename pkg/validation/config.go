package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
)

// ValidateStartDate checks an optional schedule start date.
func ValidateStartDate(startDate string) (string, error) {
	if strings.TrimSpace(startDate) == "" {
		return "", nil
	}
	if _, err := datetime.ParseDate(startDate); err != nil {
		return fmt.Sprintf("Start date %q is not a YYYY-MM-DD date - using the first of the current month", startDate), err
	}
	return "", nil
}

// InsuranceRateWarning reports an insurance rate that will be treated as 0.
func InsuranceRateWarning(rate string) string {
	if strings.TrimSpace(rate) == "" {
		return ""
	}
	n, ok := amortization.ParseNumber(rate)
	if !ok || n < 0 {
		return fmt.Sprintf("Insurance rate %q is not a non-negative number - no additional costs will be computed", rate)
	}
	return ""
}

// OverrideValidator checks a set of raw override rows against a loan term.
type OverrideValidator struct {
	TermMonths   int
	MaxOverrides int
}

// Limit returns the rows that will be used, dropping non-blank rows past
// MaxOverrides (0 means unlimited), along with a warning for each dropped row.
func (v OverrideValidator) Limit(raw []amortization.RawOverride) ([]amortization.RawOverride, []string) {
	if v.MaxOverrides <= 0 {
		return raw, nil
	}

	var kept []amortization.RawOverride
	var warnings []string
	count := 0
	for i, row := range raw {
		if row.Blank() {
			continue
		}
		count++
		if count > v.MaxOverrides {
			warnings = append(warnings, fmt.Sprintf("override row %d ignored: at most %d override rows are accepted",
				i+1, v.MaxOverrides))
			continue
		}
		kept = append(kept, row)
	}
	return kept, warnings
}

// ValidateAll returns warnings for rejected rows, duplicate ranks and ranks
// that fall outside the loan term.
func (v OverrideValidator) ValidateAll(raw []amortization.RawOverride) []string {
	var warnings []string

	parsed, rejected := amortization.ParseOverrides(raw)
	for _, r := range rejected {
		warnings = append(warnings, r.String())
	}

	seen := make(map[int]int, len(parsed))
	for _, o := range parsed {
		seen[o.Rank]++
	}
	for _, o := range amortization.NormalizeOverrides(parsed) {
		if n := seen[o.Rank]; n > 1 {
			warnings = append(warnings, fmt.Sprintf("%d override rows share rank %d - the last one is used", n, o.Rank))
		}
		if v.TermMonths > 0 && o.Rank > v.TermMonths {
			warnings = append(warnings, fmt.Sprintf("override rank %d is beyond the %d month term and will not be used",
				o.Rank, v.TermMonths))
		}
	}

	return warnings
}
