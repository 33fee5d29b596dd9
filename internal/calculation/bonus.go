package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
)

// BonusTaxCalculator taxes non-periodic payments (bonuses, retroactive pay)
// by the aggregate method: re-derive the cumulative liability with the bonus
// included and withhold only what regular withholding has not already
// covered. When withholding to date already exceeds the bonus-inclusive
// liability the bonus needs no additional withholding at all; that zero is a
// correct outcome and is returned as-is.
type BonusTaxCalculator struct {
	Income *IncomeTaxCalculator
}

// NewBonusTaxCalculator creates a bonus calculator sharing the income tax
// calculator's tables.
func NewBonusTaxCalculator(income *IncomeTaxCalculator) *BonusTaxCalculator {
	return &BonusTaxCalculator{Income: income}
}

// BonusTaxes is the additional withholding attributable to the bonus.
type BonusTaxes struct {
	Federal    decimal.Decimal
	Provincial decimal.Decimal
}

// Compute returns the tax on in.NonPeriodicPayment, reconciling against tax
// already withheld: the year-to-date figures plus the current period's
// regular tax (which excludes the bonus).
func (bc *BonusTaxCalculator) Compute(in *domain.PayPeriodInput, prov domain.ProvincialTaxConfig, ytd domain.YTDTotals, regular PeriodTaxes, cpp, ei decimal.Decimal) (BonusTaxes, error) {
	if !in.NonPeriodicPayment.IsPositive() {
		return BonusTaxes{}, nil
	}

	cumulative := ytd.TaxableIncome.Add(netPeriodIncome(in))
	withBonus := cumulative.Add(in.NonPeriodicPayment)

	fedJ := bc.Income.federalJurisdiction(in)
	provJ := bc.Income.provincialJurisdiction(in, prov)

	fed, err := bc.taxOnBonus(fedJ, in, withBonus, ytd.FederalTax.Add(regular.Federal), cpp, ei)
	if err != nil {
		return BonusTaxes{}, err
	}
	provTax, err := bc.taxOnBonus(provJ, in, withBonus, ytd.ProvincialTax.Add(regular.Provincial), cpp, ei)
	if err != nil {
		return BonusTaxes{}, err
	}
	return BonusTaxes{Federal: fed, Provincial: provTax}, nil
}

func (bc *BonusTaxCalculator) taxOnBonus(j jurisdiction, in *domain.PayPeriodInput, cumulativeWithBonus, withheldExcludingBonus, cpp, ei decimal.Decimal) (decimal.Decimal, error) {
	liability, err := bc.Income.cumulativeLiability(j, cumulativeWithBonus, in, cpp, ei)
	if err != nil {
		return decimal.Zero, err
	}
	return clampZero(round2(liability).Sub(withheldExcludingBonus)), nil
}
