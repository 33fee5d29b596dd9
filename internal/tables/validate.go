package tables

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
)

var one = decimal.NewFromInt(1)

// Validate checks a tax-year config for internal consistency. A table that
// fails here is never registered; the engine refuses to guess around a
// malformed table.
func Validate(cfg *domain.TaxYearConfig) error {
	if cfg.Year < 1990 {
		return domain.NewConfigError("implausible tax year %d", cfg.Year)
	}
	switch cfg.Edition {
	case domain.EditionJanuary, domain.EditionJuly:
	default:
		return domain.NewConfigError("unknown edition %q", cfg.Edition)
	}
	if err := validateCppEi(cfg.CppEi); err != nil {
		return err
	}
	if err := validateBrackets("federal", cfg.Federal.Brackets); err != nil {
		return err
	}
	if cfg.Federal.BasicPersonalAmount.IsNegative() {
		return domain.NewConfigError("federal basic personal amount must not be negative")
	}
	if cfg.Federal.DynamicBpa != nil {
		if err := validateDynamicBpa("federal", cfg.Federal.DynamicBpa); err != nil {
			return err
		}
	}
	if len(cfg.Provinces) == 0 {
		return domain.NewConfigError("no provinces configured")
	}
	for code, prov := range cfg.Provinces {
		if err := validateProvince(code, prov); err != nil {
			return err
		}
	}
	return nil
}

func validateCppEi(p domain.CppEiParams) error {
	for _, r := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"cpp_rate", p.CppRate},
		{"cpp2_rate", p.Cpp2Rate},
		{"ei_rate", p.EiRate},
	} {
		if !r.rate.IsPositive() || r.rate.GreaterThanOrEqual(one) {
			return domain.NewConfigError("%s must be in (0, 1), got %s", r.name, r.rate)
		}
	}
	if !p.YMPE.LessThan(p.YAMPE) {
		return domain.NewConfigError("YMPE (%s) must be below YAMPE (%s)", p.YMPE, p.YAMPE)
	}
	if p.BasicExemption.IsNegative() {
		return domain.NewConfigError("basic exemption must not be negative")
	}
	for _, m := range []struct {
		name string
		max  decimal.Decimal
	}{
		{"cpp_max", p.CppMax},
		{"cpp2_max", p.Cpp2Max},
		{"ei_max", p.EiMax},
		{"ei_max_insurable", p.EiMaxInsurable},
	} {
		if m.max.IsNegative() {
			return domain.NewConfigError("%s must not be negative", m.name)
		}
	}
	if p.EmployerEiMultiplier.IsNegative() {
		return domain.NewConfigError("employer EI multiplier must not be negative")
	}
	if p.CppCreditRatio.IsNegative() || p.CppCreditRatio.GreaterThan(one) {
		return domain.NewConfigError("cpp_credit_ratio must be in [0, 1], got %s", p.CppCreditRatio)
	}
	return nil
}

// validateBrackets enforces the bracket-table invariants: the table covers
// [0, inf) starting at zero, thresholds strictly ascend, and rates strictly
// increase so the table is genuinely progressive.
func validateBrackets(scope string, brackets []domain.TaxBracket) error {
	if len(brackets) == 0 {
		return domain.NewConfigError("%s: no tax brackets", scope)
	}
	if !brackets[0].ThresholdLower.IsZero() {
		return domain.NewConfigError("%s: first bracket threshold must be 0, got %s", scope, brackets[0].ThresholdLower)
	}
	for i, b := range brackets {
		if !b.Rate.IsPositive() || b.Rate.GreaterThanOrEqual(one) {
			return domain.NewConfigError("%s: bracket %d rate must be in (0, 1), got %s", scope, i, b.Rate)
		}
		if b.ConstantK.IsNegative() {
			return domain.NewConfigError("%s: bracket %d constant must not be negative", scope, i)
		}
		if i == 0 {
			continue
		}
		if !brackets[i-1].ThresholdLower.LessThan(b.ThresholdLower) {
			return domain.NewConfigError("%s: bracket %d threshold %s does not ascend", scope, i, b.ThresholdLower)
		}
		if !brackets[i-1].Rate.LessThan(b.Rate) {
			return domain.NewConfigError("%s: bracket %d rate %s does not increase", scope, i, b.Rate)
		}
	}
	return nil
}

func validateProvince(code domain.ProvinceCode, prov domain.ProvincialTaxConfig) error {
	scope := string(code)
	if err := validateBrackets(scope, prov.Brackets); err != nil {
		return err
	}
	if prov.BasicPersonalAmount.IsNegative() {
		return domain.NewConfigError("%s: basic personal amount must not be negative", scope)
	}
	if prov.CreditRate.IsNegative() || prov.CreditRate.GreaterThanOrEqual(one) {
		return domain.NewConfigError("%s: credit rate must be in [0, 1), got %s", scope, prov.CreditRate)
	}
	if prov.Surtax != nil {
		if len(prov.Surtax.Tiers) == 0 {
			return domain.NewConfigError("%s: surtax block with no tiers", scope)
		}
		for i, tier := range prov.Surtax.Tiers {
			if tier.Threshold.IsNegative() || tier.Rate.IsNegative() {
				return domain.NewConfigError("%s: surtax tier %d has negative values", scope, i)
			}
			if i > 0 && !prov.Surtax.Tiers[i-1].Threshold.LessThan(tier.Threshold) {
				return domain.NewConfigError("%s: surtax tier %d threshold does not ascend", scope, i)
			}
		}
	}
	if prov.HealthPremium != nil {
		if len(prov.HealthPremium.Bands) == 0 {
			return domain.NewConfigError("%s: health premium block with no bands", scope)
		}
		for i, band := range prov.HealthPremium.Bands {
			if band.From.IsNegative() || band.Flat.IsNegative() || band.Rate.IsNegative() || band.Cap.IsNegative() {
				return domain.NewConfigError("%s: health premium band %d has negative values", scope, i)
			}
			if i > 0 && !prov.HealthPremium.Bands[i-1].From.LessThan(band.From) {
				return domain.NewConfigError("%s: health premium band %d does not ascend", scope, i)
			}
		}
	}
	if prov.DynamicBpa != nil {
		if err := validateDynamicBpa(scope, prov.DynamicBpa); err != nil {
			return err
		}
	}
	if prov.AgeCredit != nil {
		a := prov.AgeCredit
		if a.BaseAmount.IsNegative() || a.IncomeThreshold.IsNegative() || a.ReductionRate.IsNegative() {
			return domain.NewConfigError("%s: age credit has negative values", scope)
		}
	}
	if prov.AdditionalDeduction != nil && prov.AdditionalDeduction.IsNegative() {
		return domain.NewConfigError("%s: additional deduction must not be negative", scope)
	}
	return nil
}

func validateDynamicBpa(scope string, p *domain.DynamicBpaParams) error {
	if p.Min.IsNegative() || p.Max.LessThan(p.Min) {
		return domain.NewConfigError("%s: dynamic BPA requires 0 <= min <= max", scope)
	}
	if !p.PhaseoutStart.LessThan(p.PhaseoutEnd) {
		return domain.NewConfigError("%s: dynamic BPA phaseout start must be below end", scope)
	}
	return nil
}
