package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testConfig builds a realistic 2025 January-edition table used across the
// calculation tests.
func testConfig() *domain.TaxYearConfig {
	return &domain.TaxYearConfig{
		Year:    2025,
		Edition: domain.EditionJanuary,
		CppEi: domain.CppEiParams{
			YMPE:                 dec("74600"),
			YAMPE:                dec("85000"),
			BasicExemption:       dec("3500"),
			CppRate:              dec("0.0595"),
			Cpp2Rate:             dec("0.04"),
			CppMax:               dec("4230.45"),
			Cpp2Max:              dec("416.00"),
			EiRate:               dec("0.0164"),
			EiMaxInsurable:       dec("65700"),
			EiMax:                dec("1077.48"),
			EmployerEiMultiplier: dec("1.4"),
			CppCreditRatio:       dec("0.8319"),
		},
		Federal: domain.FederalTaxConfig{
			Brackets: []domain.TaxBracket{
				{ThresholdLower: dec("0"), Rate: dec("0.15"), ConstantK: dec("0")},
				{ThresholdLower: dec("57375"), Rate: dec("0.205"), ConstantK: dec("3155.63")},
				{ThresholdLower: dec("114750"), Rate: dec("0.26"), ConstantK: dec("9466.88")},
				{ThresholdLower: dec("177882"), Rate: dec("0.29"), ConstantK: dec("14803.34")},
				{ThresholdLower: dec("253414"), Rate: dec("0.33"), ConstantK: dec("24939.90")},
			},
			BasicPersonalAmount:  dec("16129"),
			EmploymentCreditRate: dec("0.15"),
			EmploymentCreditCap:  dec("1471"),
			DynamicBpa: &domain.DynamicBpaParams{
				Max:           dec("16129"),
				Min:           dec("14538"),
				PhaseoutStart: dec("177882"),
				PhaseoutEnd:   dec("253414"),
			},
		},
		Provinces: map[domain.ProvinceCode]domain.ProvincialTaxConfig{
			domain.ProvinceON: {
				Name: "Ontario",
				Brackets: []domain.TaxBracket{
					{ThresholdLower: dec("0"), Rate: dec("0.0505"), ConstantK: dec("0")},
					{ThresholdLower: dec("52886"), Rate: dec("0.0915"), ConstantK: dec("2168.33")},
					{ThresholdLower: dec("105775"), Rate: dec("0.1116"), ConstantK: dec("4294.41")},
					{ThresholdLower: dec("150000"), Rate: dec("0.1216"), ConstantK: dec("5794.41")},
					{ThresholdLower: dec("220000"), Rate: dec("0.1316"), ConstantK: dec("7994.41")},
				},
				BasicPersonalAmount: dec("12747"),
				CreditRate:          dec("0.0505"),
				Surtax: &domain.SurtaxParams{
					Tiers: []domain.SurtaxTier{
						{Threshold: dec("5710"), Rate: dec("0.20")},
						{Threshold: dec("7307"), Rate: dec("0.36")},
					},
				},
				HealthPremium: &domain.HealthPremiumParams{
					Bands: []domain.PremiumBand{
						{From: dec("0"), Flat: dec("0"), Rate: dec("0"), Cap: dec("0")},
						{From: dec("20000"), Flat: dec("0"), Rate: dec("0.06"), Cap: dec("300")},
						{From: dec("36000"), Flat: dec("300"), Rate: dec("0.06"), Cap: dec("150")},
						{From: dec("48000"), Flat: dec("450"), Rate: dec("0.25"), Cap: dec("150")},
						{From: dec("72000"), Flat: dec("600"), Rate: dec("0.25"), Cap: dec("300")},
						{From: dec("200600"), Flat: dec("900"), Rate: dec("0"), Cap: dec("0")},
					},
				},
				AgeCredit: &domain.AgeCreditParams{
					BaseAmount:      dec("6223"),
					IncomeThreshold: dec("46330"),
					ReductionRate:   dec("0.15"),
				},
			},
			domain.ProvinceBC: {
				Name: "British Columbia",
				Brackets: []domain.TaxBracket{
					{ThresholdLower: dec("0"), Rate: dec("0.0506"), ConstantK: dec("0")},
					{ThresholdLower: dec("49279"), Rate: dec("0.077"), ConstantK: dec("1300.97")},
					{ThresholdLower: dec("98560"), Rate: dec("0.105"), ConstantK: dec("4060.65")},
				},
				BasicPersonalAmount: dec("12932"),
				CreditRate:          dec("0.0506"),
			},
			domain.ProvinceAB: {
				Name: "Alberta",
				Brackets: []domain.TaxBracket{
					{ThresholdLower: dec("0"), Rate: dec("0.10"), ConstantK: dec("0")},
				},
				BasicPersonalAmount: dec("22323"),
				CreditRate:          dec("0.10"),
			},
		},
	}
}
