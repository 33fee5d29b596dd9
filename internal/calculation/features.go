package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
)

// Province-specific adjustments. Each feature is a pure function over the
// config block plus the figures it needs; presence of the block in the
// provincial config is what switches the feature on.

// surtaxOn computes the extra tax a province levies on basic tax itself.
// Tiers stack: Ontario's second tier applies on top of the first, so tax in
// the top band pays both rates.
func surtaxOn(baseTax decimal.Decimal, params *domain.SurtaxParams) decimal.Decimal {
	if params == nil {
		return decimal.Zero
	}
	extra := decimal.Zero
	for _, tier := range params.Tiers {
		over := baseTax.Sub(tier.Threshold)
		if over.IsPositive() {
			extra = extra.Add(over.Mul(tier.Rate))
		}
	}
	return extra
}

// healthPremiumOn computes the annual income-banded health levy. The band
// with the highest From not exceeding income applies.
func healthPremiumOn(annualIncome decimal.Decimal, params *domain.HealthPremiumParams) decimal.Decimal {
	if params == nil || len(params.Bands) == 0 {
		return decimal.Zero
	}
	band := params.Bands[0]
	for _, b := range params.Bands[1:] {
		if b.From.GreaterThan(annualIncome) {
			break
		}
		band = b
	}
	if annualIncome.LessThan(band.From) {
		return decimal.Zero
	}
	graduated := annualIncome.Sub(band.From).Mul(band.Rate)
	if graduated.GreaterThan(band.Cap) {
		graduated = band.Cap
	}
	return band.Flat.Add(graduated)
}

// ageCreditBase computes the reduced age-credit base for an employee 65 or
// older. The base phases down as income rises above the threshold.
func ageCreditBase(annualIncome decimal.Decimal, age int, params *domain.AgeCreditParams) decimal.Decimal {
	if params == nil || age < 65 {
		return decimal.Zero
	}
	over := clampZero(annualIncome.Sub(params.IncomeThreshold))
	return clampZero(params.BaseAmount.Sub(over.Mul(params.ReductionRate)))
}

// resolveBpa returns the basic personal amount for the given annual income,
// using the closed-form phase-out when the jurisdiction publishes one.
func resolveBpa(static decimal.Decimal, dynamic *domain.DynamicBpaParams, annualIncome decimal.Decimal) decimal.Decimal {
	if dynamic != nil {
		return dynamic.Amount(annualIncome)
	}
	return static
}
