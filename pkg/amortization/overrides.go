package amortization

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
)

// Override is a known row, typically copied from a bank statement, that
// replaces the computed row of the same rank.
type Override struct {
	Rank             int       `json:"rank" yaml:"rank"`
	DueDate          time.Time `json:"dueDate" yaml:"dueDate"`
	Payment          float64   `json:"payment" yaml:"payment"`
	Principal        float64   `json:"principal" yaml:"principal"`
	Interest         float64   `json:"interest" yaml:"interest"`
	AdditionalCosts  float64   `json:"additionalCosts" yaml:"additionalCosts"`
	RemainingBalance float64   `json:"remainingBalance" yaml:"remainingBalance"`
}

// Row returns the override as an emitted schedule row. Values are taken
// verbatim apart from rounding to cents.
func (o Override) Row() Row {
	return Row{
		Rank:             o.Rank,
		DueDate:          o.DueDate,
		Payment:          mathutil.Round(o.Payment),
		Principal:        mathutil.Round(o.Principal),
		Interest:         mathutil.Round(o.Interest),
		AdditionalCosts:  mathutil.Round(o.AdditionalCosts),
		RemainingBalance: mathutil.Max(mathutil.Round(o.RemainingBalance), 0),
		Overridden:       true,
	}
}

func (o Override) valid() bool {
	return o.Rank >= 1 &&
		!o.DueDate.IsZero() &&
		mathutil.IsFinite(o.Payment) &&
		mathutil.IsFinite(o.Principal) &&
		mathutil.IsFinite(o.Interest) &&
		mathutil.IsFinite(o.AdditionalCosts) &&
		mathutil.IsFinite(o.RemainingBalance)
}

// RawOverride is an override row as entered in a form, one string per column.
type RawOverride struct {
	Rank             string `json:"rank" yaml:"rank" mapstructure:"rank"`
	DueDate          string `json:"dueDate" yaml:"dueDate" mapstructure:"dueDate"`
	Payment          string `json:"payment" yaml:"payment" mapstructure:"payment"`
	Principal        string `json:"principal" yaml:"principal" mapstructure:"principal"`
	Interest         string `json:"interest" yaml:"interest" mapstructure:"interest"`
	AdditionalCosts  string `json:"additionalCosts" yaml:"additionalCosts" mapstructure:"additionalCosts"`
	RemainingBalance string `json:"remainingBalance" yaml:"remainingBalance" mapstructure:"remainingBalance"`
}

// Blank reports whether no column of the row was filled in.
func (r RawOverride) Blank() bool {
	for _, v := range r.columns() {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (r RawOverride) columns() []string {
	return []string{r.Rank, r.DueDate, r.Payment, r.Principal, r.Interest, r.AdditionalCosts, r.RemainingBalance}
}

// Parse converts the row. A row is only usable when every column is present
// and numeric columns hold numbers; the returned error says why not.
func (r RawOverride) Parse() (Override, error) {
	names := []string{"rank", "dueDate", "payment", "principal", "interest", "additionalCosts", "remainingBalance"}
	for i, v := range r.columns() {
		if strings.TrimSpace(v) == "" {
			return Override{}, fmt.Errorf("missing %s", names[i])
		}
	}

	rank, ok := ParseWholeNumber(r.Rank)
	if !ok {
		return Override{}, fmt.Errorf("rank %q is not a whole number", r.Rank)
	}
	if rank < 1 {
		return Override{}, fmt.Errorf("rank must be at least 1, got %d", rank)
	}

	dueDate, err := datetime.ParseDate(r.DueDate)
	if err != nil {
		return Override{}, fmt.Errorf("due date %q: %w", r.DueDate, err)
	}

	o := Override{Rank: rank, DueDate: dueDate}
	amounts := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"payment", r.Payment, &o.Payment},
		{"principal", r.Principal, &o.Principal},
		{"interest", r.Interest, &o.Interest},
		{"additionalCosts", r.AdditionalCosts, &o.AdditionalCosts},
		{"remainingBalance", r.RemainingBalance, &o.RemainingBalance},
	}
	for _, a := range amounts {
		n, ok := ParseNumber(a.value)
		if !ok {
			return Override{}, fmt.Errorf("%s %q is not a number", a.name, a.value)
		}
		*a.dst = n
	}
	return o, nil
}

// RejectedOverride pairs a discarded raw row with the reason it was dropped.
type RejectedOverride struct {
	Index  int
	Row    RawOverride
	Reason error
}

func (r RejectedOverride) String() string {
	return fmt.Sprintf("override row %d ignored: %v", r.Index+1, r.Reason)
}

// ParseOverrides parses raw rows in order. Blank rows are skipped silently;
// other unusable rows are returned as rejections rather than errors.
func ParseOverrides(raw []RawOverride) ([]Override, []RejectedOverride) {
	var parsed []Override
	var rejected []RejectedOverride
	for i, r := range raw {
		if r.Blank() {
			continue
		}
		o, err := r.Parse()
		if err != nil {
			rejected = append(rejected, RejectedOverride{Index: i, Row: r, Reason: err})
			continue
		}
		parsed = append(parsed, o)
	}
	return parsed, rejected
}

// NormalizeOverrides drops invalid rows, keeps the last row seen for each
// rank and returns the result sorted by ascending rank.
func NormalizeOverrides(overrides []Override) []Override {
	byRank := make(map[int]Override, len(overrides))
	for _, o := range overrides {
		if !o.valid() {
			continue
		}
		byRank[o.Rank] = o
	}

	normalized := make([]Override, 0, len(byRank))
	for _, o := range byRank {
		normalized = append(normalized, o)
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Rank < normalized[j].Rank
	})
	return normalized
}

// IndexOverrides normalizes overrides and indexes them by rank.
func IndexOverrides(overrides []Override) map[int]Override {
	normalized := NormalizeOverrides(overrides)
	index := make(map[int]Override, len(normalized))
	for _, o := range normalized {
		index[o.Rank] = o
	}
	return index
}
