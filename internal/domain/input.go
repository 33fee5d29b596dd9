package domain

import (
	"github.com/shopspring/decimal"
)

// TaxMethod selects which CRA-sanctioned withholding method applies to an
// employee. The engine never guesses: callers flag commission or otherwise
// irregular earners for cumulative averaging themselves.
type TaxMethod string

const (
	// MethodPeriodic is Option 1: annualize the current period in isolation.
	MethodPeriodic TaxMethod = "option1"
	// MethodCumulative is Option 2: re-derive the full-year liability from
	// all periods to date and withhold only the delta.
	MethodCumulative TaxMethod = "option2"
)

// PayPeriodInput is one employee's earnings and elections for a single pay
// period. Field letters in comments follow the T4127 variable names.
type PayPeriodInput struct {
	EmployeeID        string          `yaml:"employee_id" json:"employee_id"`
	Province          ProvinceCode    `yaml:"province" json:"province"`
	GrossPay          decimal.Decimal `yaml:"gross_pay" json:"gross_pay"`
	PayPeriodsPerYear int             `yaml:"pay_periods_per_year" json:"pay_periods_per_year"` // P
	PeriodsElapsed    int             `yaml:"periods_elapsed" json:"periods_elapsed"`           // PR, including this one

	PensionContributions decimal.Decimal `yaml:"pension_contributions" json:"pension_contributions"` // F
	UnionDues            decimal.Decimal `yaml:"union_dues" json:"union_dues"`                       // F1
	NonPeriodicPayment   decimal.Decimal `yaml:"non_periodic_payment" json:"non_periodic_payment"`   // B

	FederalClaim    decimal.Decimal `yaml:"federal_claim" json:"federal_claim"`       // TC
	ProvincialClaim decimal.Decimal `yaml:"provincial_claim" json:"provincial_claim"` // TCP

	EmployeeAge int       `yaml:"employee_age" json:"employee_age"`
	Method      TaxMethod `yaml:"method" json:"method"`
}

// Validate rejects caller-contract violations before any computation runs.
func (in *PayPeriodInput) Validate() error {
	if in.GrossPay.IsNegative() {
		return NewInputError("gross_pay", "must not be negative, got %s", in.GrossPay.StringFixed(2))
	}
	if in.PayPeriodsPerYear <= 0 {
		return NewInputError("pay_periods_per_year", "must be positive, got %d", in.PayPeriodsPerYear)
	}
	if in.Province == "" {
		return NewInputError("province", "is required")
	}
	if in.NonPeriodicPayment.IsNegative() {
		return NewInputError("non_periodic_payment", "must not be negative, got %s", in.NonPeriodicPayment.StringFixed(2))
	}
	if in.PensionContributions.IsNegative() {
		return NewInputError("pension_contributions", "must not be negative")
	}
	if in.UnionDues.IsNegative() {
		return NewInputError("union_dues", "must not be negative")
	}
	if in.NonPeriodicPayment.IsPositive() && in.PeriodsElapsed <= 0 {
		return NewInputError("periods_elapsed", "must be positive when a non-periodic payment is present")
	}
	switch in.Method {
	case "", MethodPeriodic:
		// Option 1 is the default withholding method.
	case MethodCumulative:
		if in.PeriodsElapsed <= 0 {
			return NewInputError("periods_elapsed", "must be positive for cumulative averaging, got %d", in.PeriodsElapsed)
		}
		if in.PeriodsElapsed > in.PayPeriodsPerYear {
			return NewInputError("periods_elapsed", "exceeds pay periods per year (%d > %d)", in.PeriodsElapsed, in.PayPeriodsPerYear)
		}
	default:
		return NewInputError("method", "unknown tax method %q", in.Method)
	}
	return nil
}

// EffectiveMethod returns the selected method with the Option 1 default applied.
func (in *PayPeriodInput) EffectiveMethod() TaxMethod {
	if in.Method == "" {
		return MethodPeriodic
	}
	return in.Method
}
