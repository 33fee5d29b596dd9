package domain

import (
	"github.com/shopspring/decimal"
)

// ReasonCode annotates a normal terminal condition on a successful result.
// A capped deduction is not an error; UIs need to tell "maximum reached"
// apart from "calculation failed".
type ReasonCode string

const (
	ReasonCppMaxReached  ReasonCode = "cpp_max_reached"
	ReasonCpp2MaxReached ReasonCode = "cpp2_max_reached"
	ReasonEiMaxReached   ReasonCode = "ei_max_reached"
)

// CalculationResult is the immutable outcome of one employee-period
// calculation. UpdatedYtd is the successor snapshot the caller persists and
// feeds into the next period.
type CalculationResult struct {
	CalculationID string `json:"calculation_id"`
	EmployeeID    string `json:"employee_id"`

	Cpp        decimal.Decimal `json:"cpp"`
	Cpp2       decimal.Decimal `json:"cpp2"`
	Ei         decimal.Decimal `json:"ei"`
	EmployerEi decimal.Decimal `json:"employer_ei"` // reported, not withheld

	FederalTax           decimal.Decimal `json:"federal_tax"`
	ProvincialTax        decimal.Decimal `json:"provincial_tax"`
	FederalTaxOnBonus    decimal.Decimal `json:"federal_tax_on_bonus"`
	ProvincialTaxOnBonus decimal.Decimal `json:"provincial_tax_on_bonus"`

	NetPay     decimal.Decimal `json:"net_pay"`
	UpdatedYtd YTDTotals       `json:"updated_ytd"`

	Reasons        []ReasonCode `json:"reasons,omitempty"`
	SanityWarnings []string     `json:"sanity_warnings,omitempty"`
}

// TotalWithheld sums every amount withheld from the employee this period.
func (r *CalculationResult) TotalWithheld() decimal.Decimal {
	return r.Cpp.Add(r.Cpp2).Add(r.Ei).
		Add(r.FederalTax).Add(r.ProvincialTax).
		Add(r.FederalTaxOnBonus).Add(r.ProvincialTaxOnBonus)
}

// HasReason reports whether the result carries the given reason code.
func (r *CalculationResult) HasReason(code ReasonCode) bool {
	for _, c := range r.Reasons {
		if c == code {
			return true
		}
	}
	return false
}
