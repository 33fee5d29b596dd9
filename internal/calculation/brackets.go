package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
)

// taxFor evaluates a progressive bracket table at the given annual taxable
// income. The applicable bracket is the highest one whose lower threshold
// does not exceed the income; the published constant K folds the overcharge
// of taxing the whole income at the marginal rate back out, so a single
// multiply-subtract reproduces the true marginal calculation.
func taxFor(income decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, error) {
	if len(brackets) == 0 {
		return decimal.Zero, domain.NewConfigError("no tax brackets supplied")
	}
	if income.IsNegative() {
		income = decimal.Zero
	}

	bracket := brackets[0]
	for _, b := range brackets[1:] {
		if b.ThresholdLower.GreaterThan(income) {
			break
		}
		bracket = b
	}

	tax := income.Mul(bracket.Rate).Sub(bracket.ConstantK)
	return clampZero(tax), nil
}

// lowestRate returns the first bracket's rate, the rate non-refundable
// credits convert at.
func lowestRate(brackets []domain.TaxBracket) decimal.Decimal {
	if len(brackets) == 0 {
		return decimal.Zero
	}
	return brackets[0].Rate
}
