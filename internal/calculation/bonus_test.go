package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplepay/paycalc/internal/domain"
)

func TestBonusTaxZeroWhenAlreadyOverWithheld(t *testing.T) {
	cfg := testConfig()
	bc := NewBonusTaxCalculator(NewIncomeTaxCalculator(cfg))
	prov := cfg.Provinces[domain.ProvinceON]

	// Mid-year, modest income, but withholding to date far exceeds what the
	// bonus-inclusive projection calls for. The aggregate method then asks
	// for no additional withholding on the bonus at all; the excess is the
	// employee's to recover at year-end, not the engine's to fix.
	in := ontarioInput()
	in.GrossPay = dec("1000")
	in.PeriodsElapsed = 13
	in.NonPeriodicPayment = dec("1000")

	ytd := domain.YTDTotals{
		TaxableIncome: dec("13000"),
		FederalTax:    dec("5000"),
		ProvincialTax: dec("5000"),
	}

	bonus, err := bc.Compute(in, prov, ytd, PeriodTaxes{}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, bonus.Federal.IsZero(), "got %s", bonus.Federal.StringFixed(2))
	assert.True(t, bonus.Provincial.IsZero(), "got %s", bonus.Provincial.StringFixed(2))
}

func TestBonusTaxIsIncrementalDelta(t *testing.T) {
	cfg := testConfig()
	tc := NewIncomeTaxCalculator(cfg)
	bc := NewBonusTaxCalculator(tc)
	prov := cfg.Provinces[domain.ProvinceON]

	in := ontarioInput()
	in.PeriodsElapsed = 1
	in.NonPeriodicPayment = dec("5000")

	regular, err := tc.Compute(in, prov, domain.YTDTotals{}, dec("110.99"), dec("32.80"))
	require.NoError(t, err)

	bonus, err := bc.Compute(in, prov, domain.YTDTotals{}, regular, dec("110.99"), dec("32.80"))
	require.NoError(t, err)

	assert.True(t, bonus.Federal.IsPositive())
	assert.True(t, bonus.Provincial.IsPositive())

	// The delta must equal liability-with-bonus minus liability-without:
	// recompute the no-bonus liability independently and compare.
	fedJ := tc.federalJurisdiction(in)
	withBonus, err := tc.cumulativeLiability(fedJ, dec("7000"), in, dec("110.99"), dec("32.80"))
	require.NoError(t, err)
	expected := clampZero(round2(withBonus).Sub(regular.Federal))
	assert.True(t, bonus.Federal.Equal(expected),
		"expected %s, got %s", expected.StringFixed(2), bonus.Federal.StringFixed(2))
}

func TestBonusTaxAbsentBonus(t *testing.T) {
	cfg := testConfig()
	bc := NewBonusTaxCalculator(NewIncomeTaxCalculator(cfg))
	prov := cfg.Provinces[domain.ProvinceON]

	in := ontarioInput()
	bonus, err := bc.Compute(in, prov, domain.YTDTotals{}, PeriodTaxes{}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, bonus.Federal.IsZero())
	assert.True(t, bonus.Provincial.IsZero())
}
