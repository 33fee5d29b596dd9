package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Edition identifies which half-year publication of the statutory tables a
// TaxYearConfig was produced from. CRA reissues rates mid-year, so a tax year
// can carry two editions with different brackets.
type Edition string

const (
	EditionJanuary Edition = "jan"
	EditionJuly    Edition = "jul"
)

// ProvinceCode is the two-letter postal abbreviation for a province or territory.
type ProvinceCode string

const (
	ProvinceAB ProvinceCode = "AB"
	ProvinceBC ProvinceCode = "BC"
	ProvinceMB ProvinceCode = "MB"
	ProvinceNB ProvinceCode = "NB"
	ProvinceNL ProvinceCode = "NL"
	ProvinceNS ProvinceCode = "NS"
	ProvinceNT ProvinceCode = "NT"
	ProvinceNU ProvinceCode = "NU"
	ProvinceON ProvinceCode = "ON"
	ProvincePE ProvinceCode = "PE"
	ProvinceSK ProvinceCode = "SK"
	ProvinceYT ProvinceCode = "YT"
)

// TaxYearConfig is the complete set of statutory parameters for one
// (year, edition). Loaded once by the table store and never mutated, so a
// single config can be shared across any number of concurrent calculations.
type TaxYearConfig struct {
	Year      int                                  `yaml:"year" json:"year"`
	Edition   Edition                              `yaml:"edition" json:"edition"`
	CppEi     CppEiParams                          `yaml:"cpp_ei" json:"cpp_ei"`
	Federal   FederalTaxConfig                     `yaml:"federal" json:"federal"`
	Provinces map[ProvinceCode]ProvincialTaxConfig `yaml:"provinces" json:"provinces"`
}

// Province returns the provincial config for the given code.
func (c *TaxYearConfig) Province(code ProvinceCode) (ProvincialTaxConfig, bool) {
	p, ok := c.Provinces[code]
	return p, ok
}

// CppEiParams holds the CPP, CPP2 and EI parameters for one tax year edition.
type CppEiParams struct {
	YMPE                 decimal.Decimal `yaml:"ympe" json:"ympe"`
	YAMPE                decimal.Decimal `yaml:"yampe" json:"yampe"`
	BasicExemption       decimal.Decimal `yaml:"basic_exemption" json:"basic_exemption"`
	CppRate              decimal.Decimal `yaml:"cpp_rate" json:"cpp_rate"`
	Cpp2Rate             decimal.Decimal `yaml:"cpp2_rate" json:"cpp2_rate"`
	CppMax               decimal.Decimal `yaml:"cpp_max" json:"cpp_max"`
	Cpp2Max              decimal.Decimal `yaml:"cpp2_max" json:"cpp2_max"`
	EiRate               decimal.Decimal `yaml:"ei_rate" json:"ei_rate"`
	EiMaxInsurable       decimal.Decimal `yaml:"ei_max_insurable" json:"ei_max_insurable"`
	EiMax                decimal.Decimal `yaml:"ei_max" json:"ei_max"`
	EmployerEiMultiplier decimal.Decimal `yaml:"employer_ei_multiplier" json:"employer_ei_multiplier"`

	// CppCreditRatio is the base-rate share of the full CPP rate. Only the
	// base portion of a CPP contribution is creditable against tax; the
	// enhanced portion is a deduction handled elsewhere.
	CppCreditRatio decimal.Decimal `yaml:"cpp_credit_ratio" json:"cpp_credit_ratio"`
}

// TaxBracket is one row of a progressive rate table. ConstantK is the
// published overcharge adjustment: tax = income*Rate - ConstantK reproduces
// the marginal calculation without iterating lower brackets.
type TaxBracket struct {
	ThresholdLower decimal.Decimal `yaml:"threshold_lower" json:"threshold_lower"`
	Rate           decimal.Decimal `yaml:"rate" json:"rate"`
	ConstantK      decimal.Decimal `yaml:"constant_k" json:"constant_k"`
}

// FederalTaxConfig holds the federal bracket table and credit parameters.
type FederalTaxConfig struct {
	Brackets             []TaxBracket      `yaml:"brackets" json:"brackets"`
	BasicPersonalAmount  decimal.Decimal   `yaml:"basic_personal_amount" json:"basic_personal_amount"`
	EmploymentCreditRate decimal.Decimal   `yaml:"employment_credit_rate" json:"employment_credit_rate"`
	EmploymentCreditCap  decimal.Decimal   `yaml:"employment_credit_cap" json:"employment_credit_cap"`
	DynamicBpa           *DynamicBpaParams `yaml:"dynamic_bpa,omitempty" json:"dynamic_bpa,omitempty"`
}

// ProvincialTaxConfig holds one province's bracket table, credit parameters
// and optional feature blocks. A nil feature block means the province has no
// such levy; presence of the block is the dispatch mechanism.
type ProvincialTaxConfig struct {
	Name                 string               `yaml:"name" json:"name"`
	Brackets             []TaxBracket         `yaml:"brackets" json:"brackets"`
	BasicPersonalAmount  decimal.Decimal      `yaml:"basic_personal_amount" json:"basic_personal_amount"`
	CreditRate           decimal.Decimal      `yaml:"credit_rate" json:"credit_rate"`
	EmploymentCreditRate decimal.Decimal      `yaml:"employment_credit_rate" json:"employment_credit_rate"`
	EmploymentCreditCap  decimal.Decimal      `yaml:"employment_credit_cap" json:"employment_credit_cap"`
	Surtax               *SurtaxParams        `yaml:"surtax,omitempty" json:"surtax,omitempty"`
	HealthPremium        *HealthPremiumParams `yaml:"health_premium,omitempty" json:"health_premium,omitempty"`
	DynamicBpa           *DynamicBpaParams    `yaml:"dynamic_bpa,omitempty" json:"dynamic_bpa,omitempty"`
	AgeCredit            *AgeCreditParams     `yaml:"age_credit,omitempty" json:"age_credit,omitempty"`
	AdditionalDeduction  *decimal.Decimal     `yaml:"additional_deduction,omitempty" json:"additional_deduction,omitempty"`
}

// SurtaxParams describes a surtax levied on provincial tax itself rather than
// on income. Each tier adds Rate on the portion of basic tax above Threshold.
type SurtaxParams struct {
	Tiers []SurtaxTier `yaml:"tiers" json:"tiers"`
}

// SurtaxTier is one surtax threshold/rate pair.
type SurtaxTier struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// HealthPremiumParams describes an income-banded health levy. The band whose
// From is the highest not exceeding annual income applies: premium is Flat
// plus Rate on income above From, capped at Cap.
type HealthPremiumParams struct {
	Bands []PremiumBand `yaml:"bands" json:"bands"`
}

// PremiumBand is one health-premium income band.
type PremiumBand struct {
	From decimal.Decimal `yaml:"from" json:"from"`
	Flat decimal.Decimal `yaml:"flat" json:"flat"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
	Cap  decimal.Decimal `yaml:"cap" json:"cap"`
}

// DynamicBpaParams describes a basic personal amount that phases down linearly
// from Max to Min as annual income moves from PhaseoutStart to PhaseoutEnd.
// The published formula is closed-form; no iteration is involved.
type DynamicBpaParams struct {
	Max           decimal.Decimal `yaml:"max" json:"max"`
	Min           decimal.Decimal `yaml:"min" json:"min"`
	PhaseoutStart decimal.Decimal `yaml:"phaseout_start" json:"phaseout_start"`
	PhaseoutEnd   decimal.Decimal `yaml:"phaseout_end" json:"phaseout_end"`
}

// Amount resolves the BPA for the given annual income.
func (p *DynamicBpaParams) Amount(income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(p.PhaseoutStart) {
		return p.Max
	}
	if income.GreaterThanOrEqual(p.PhaseoutEnd) {
		return p.Min
	}
	span := p.PhaseoutEnd.Sub(p.PhaseoutStart)
	fraction := income.Sub(p.PhaseoutStart).Div(span)
	return p.Max.Sub(p.Max.Sub(p.Min).Mul(fraction))
}

// AgeCreditParams describes an age credit whose base amount is reduced by
// ReductionRate on income above IncomeThreshold.
type AgeCreditParams struct {
	BaseAmount      decimal.Decimal `yaml:"base_amount" json:"base_amount"`
	IncomeThreshold decimal.Decimal `yaml:"income_threshold" json:"income_threshold"`
	ReductionRate   decimal.Decimal `yaml:"reduction_rate" json:"reduction_rate"`
}

// Key identifies one loaded table edition.
func (c *TaxYearConfig) Key() string {
	return fmt.Sprintf("%d/%s", c.Year, c.Edition)
}
