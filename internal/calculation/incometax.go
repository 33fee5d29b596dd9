package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
)

// IncomeTaxCalculator computes federal and provincial income tax for one pay
// period under either sanctioned withholding method. It holds only the
// immutable tax-year config; all per-employee state arrives as arguments.
type IncomeTaxCalculator struct {
	Config *domain.TaxYearConfig
}

// NewIncomeTaxCalculator creates an income tax calculator over one tax-year
// edition.
func NewIncomeTaxCalculator(cfg *domain.TaxYearConfig) *IncomeTaxCalculator {
	return &IncomeTaxCalculator{Config: cfg}
}

// PeriodTaxes is the withholding for one period, split by jurisdiction.
type PeriodTaxes struct {
	Federal    decimal.Decimal
	Provincial decimal.Decimal
}

// jurisdiction flattens the federal or provincial config into the parameter
// set the shared annual-tax path needs, so both jurisdictions run the same
// algorithm over different tables.
type jurisdiction struct {
	brackets             []domain.TaxBracket
	creditRate           decimal.Decimal
	bpa                  decimal.Decimal
	dynamicBpa           *domain.DynamicBpaParams
	claim                decimal.Decimal
	employmentCreditRate decimal.Decimal
	employmentCreditCap  decimal.Decimal
	surtax               *domain.SurtaxParams
	healthPremium        *domain.HealthPremiumParams
	ageCredit            *domain.AgeCreditParams
	additionalDeduction  decimal.Decimal
}

func (tc *IncomeTaxCalculator) federalJurisdiction(in *domain.PayPeriodInput) jurisdiction {
	fed := tc.Config.Federal
	return jurisdiction{
		brackets:             fed.Brackets,
		creditRate:           lowestRate(fed.Brackets),
		bpa:                  fed.BasicPersonalAmount,
		dynamicBpa:           fed.DynamicBpa,
		claim:                in.FederalClaim,
		employmentCreditRate: fed.EmploymentCreditRate,
		employmentCreditCap:  fed.EmploymentCreditCap,
	}
}

func (tc *IncomeTaxCalculator) provincialJurisdiction(in *domain.PayPeriodInput, prov domain.ProvincialTaxConfig) jurisdiction {
	creditRate := prov.CreditRate
	if creditRate.IsZero() {
		creditRate = lowestRate(prov.Brackets)
	}
	j := jurisdiction{
		brackets:             prov.Brackets,
		creditRate:           creditRate,
		bpa:                  prov.BasicPersonalAmount,
		dynamicBpa:           prov.DynamicBpa,
		claim:                in.ProvincialClaim,
		employmentCreditRate: prov.EmploymentCreditRate,
		employmentCreditCap:  prov.EmploymentCreditCap,
		surtax:               prov.Surtax,
		healthPremium:        prov.HealthPremium,
		ageCredit:            prov.AgeCredit,
	}
	if prov.AdditionalDeduction != nil {
		j.additionalDeduction = *prov.AdditionalDeduction
	}
	return j
}

// Compute returns the period's federal and provincial tax, dispatching on the
// caller-selected withholding method.
func (tc *IncomeTaxCalculator) Compute(in *domain.PayPeriodInput, prov domain.ProvincialTaxConfig, ytd domain.YTDTotals, cpp, ei decimal.Decimal) (PeriodTaxes, error) {
	fedJ := tc.federalJurisdiction(in)
	provJ := tc.provincialJurisdiction(in, prov)

	switch in.EffectiveMethod() {
	case domain.MethodCumulative:
		fed, err := tc.cumulativeTax(fedJ, in, ytd, ytd.FederalTax, cpp, ei)
		if err != nil {
			return PeriodTaxes{}, err
		}
		provTax, err := tc.cumulativeTax(provJ, in, ytd, ytd.ProvincialTax, cpp, ei)
		if err != nil {
			return PeriodTaxes{}, err
		}
		return PeriodTaxes{Federal: fed, Provincial: provTax}, nil
	default:
		fed, err := tc.periodicTax(fedJ, in, cpp, ei)
		if err != nil {
			return PeriodTaxes{}, err
		}
		provTax, err := tc.periodicTax(provJ, in, cpp, ei)
		if err != nil {
			return PeriodTaxes{}, err
		}
		return PeriodTaxes{Federal: fed, Provincial: provTax}, nil
	}
}

// netPeriodIncome is gross less the period's tax-deductible amounts (F, F1).
func netPeriodIncome(in *domain.PayPeriodInput) decimal.Decimal {
	return in.GrossPay.Sub(in.PensionContributions).Sub(in.UnionDues)
}

// periodicTax implements Option 1: annualize the current period in isolation
// and divide the annual liability back down by P.
func (tc *IncomeTaxCalculator) periodicTax(j jurisdiction, in *domain.PayPeriodInput, cpp, ei decimal.Decimal) (decimal.Decimal, error) {
	p := decimal.NewFromInt(int64(in.PayPeriodsPerYear))
	annualIncome := clampZero(p.Mul(netPeriodIncome(in)).Sub(j.additionalDeduction))

	annualTax, err := tc.annualTaxOn(j, annualIncome, in, cpp, ei)
	if err != nil {
		return decimal.Zero, err
	}
	return round2(annualTax.Div(p)), nil
}

// cumulativeTax implements Option 2: project the full-year liability from all
// periods to date, de-annualize by elapsed periods, and withhold only what
// year-to-date withholding has not already covered. Each period re-derives
// the year from all evidence so far, so the stream self-corrects.
func (tc *IncomeTaxCalculator) cumulativeTax(j jurisdiction, in *domain.PayPeriodInput, ytd domain.YTDTotals, ytdWithheld, cpp, ei decimal.Decimal) (decimal.Decimal, error) {
	cumulative := ytd.TaxableIncome.Add(netPeriodIncome(in))
	cumTax, err := tc.cumulativeLiability(j, cumulative, in, cpp, ei)
	if err != nil {
		return decimal.Zero, err
	}
	return clampZero(round2(cumTax).Sub(ytdWithheld)), nil
}

// cumulativeLiability annualizes cumulative income by elapsed periods (not
// total periods), computes the annual tax, and scales it back down to the
// elapsed fraction of the year. Shared with the bonus calculation.
func (tc *IncomeTaxCalculator) cumulativeLiability(j jurisdiction, cumulativeIncome decimal.Decimal, in *domain.PayPeriodInput, cpp, ei decimal.Decimal) (decimal.Decimal, error) {
	p := decimal.NewFromInt(int64(in.PayPeriodsPerYear))
	elapsed := decimal.NewFromInt(int64(in.PeriodsElapsed))

	annualIncome := clampZero(cumulativeIncome.Mul(p).Div(elapsed).Sub(j.additionalDeduction))
	annualTax, err := tc.annualTaxOn(j, annualIncome, in, cpp, ei)
	if err != nil {
		return decimal.Zero, err
	}
	return annualTax.Mul(elapsed).Div(p), nil
}

// annualTaxOn computes the annual tax after credits and province features on
// the given annualized taxable income.
func (tc *IncomeTaxCalculator) annualTaxOn(j jurisdiction, annualIncome decimal.Decimal, in *domain.PayPeriodInput, cpp, ei decimal.Decimal) (decimal.Decimal, error) {
	basicTax, err := taxFor(annualIncome, j.brackets)
	if err != nil {
		return decimal.Zero, err
	}

	// K1: personal claim credit. An absent TD1 claim falls back to the
	// jurisdiction's basic personal amount, phased out when dynamic.
	claim := j.claim
	if claim.IsZero() {
		claim = resolveBpa(j.bpa, j.dynamicBpa, annualIncome)
	}
	k1 := j.creditRate.Mul(claim)

	// K2: credit for CPP and EI paid, annualized and capped at the annual
	// maxima. Only the base-rate share of CPP is creditable.
	params := tc.Config.CppEi
	p := decimal.NewFromInt(int64(in.PayPeriodsPerYear))
	annualCpp := decimal.Min(p.Mul(cpp).Mul(params.CppCreditRatio), params.CppMax.Mul(params.CppCreditRatio))
	annualEi := decimal.Min(p.Mul(ei), params.EiMax)
	k2 := j.creditRate.Mul(annualCpp.Add(annualEi))

	// K3: employment credit on income up to the cap.
	k3 := j.employmentCreditRate.Mul(decimal.Min(annualIncome, j.employmentCreditCap))

	// K4: age credit where the province has one and the employee qualifies.
	k4 := j.creditRate.Mul(ageCreditBase(annualIncome, in.EmployeeAge, j.ageCredit))

	tax := clampZero(basicTax.Sub(k1).Sub(k2).Sub(k3).Sub(k4))

	tax = tax.Add(surtaxOn(tax, j.surtax))
	tax = tax.Add(healthPremiumOn(annualIncome, j.healthPremium))
	return tax, nil
}
