package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplepay/paycalc/internal/domain"
	"github.com/maplepay/paycalc/internal/tables"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	store := tables.NewStore()
	require.NoError(t, store.Load(testConfig()))
	return NewEngine(store)
}

func TestEngineCalculate(t *testing.T) {
	e := testEngine(t)
	in := ontarioInput()

	result, err := e.Calculate(2025, domain.EditionJanuary, in, domain.YTDTotals{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.CalculationID)
	assert.Equal(t, "emp-001", result.EmployeeID)
	assert.True(t, result.Cpp.Equal(dec("110.99")), "cpp: got %s", result.Cpp.StringFixed(2))
	assert.True(t, result.Cpp2.IsZero())
	assert.True(t, result.Ei.Equal(dec("32.80")), "ei: got %s", result.Ei.StringFixed(2))
	assert.True(t, result.EmployerEi.Equal(dec("45.92")), "employer ei: got %s", result.EmployerEi.StringFixed(2))
	assert.True(t, result.FederalTax.Equal(dec("179.69")), "federal: got %s", result.FederalTax.StringFixed(2))
	assert.True(t, result.ProvincialTax.Equal(dec("93.00")), "provincial: got %s", result.ProvincialTax.StringFixed(2))
	assert.True(t, result.NetPay.Equal(dec("1583.52")), "net: got %s", result.NetPay.StringFixed(2))
	assert.Empty(t, result.Reasons)
	assert.Empty(t, result.SanityWarnings)

	ytd := result.UpdatedYtd
	assert.True(t, ytd.Gross.Equal(dec("2000")))
	assert.True(t, ytd.Cpp.Equal(dec("110.99")))
	assert.True(t, ytd.Ei.Equal(dec("32.80")))
	assert.True(t, ytd.FederalTax.Equal(dec("179.69")))
	assert.True(t, ytd.ProvincialTax.Equal(dec("93.00")))
	assert.True(t, ytd.TaxableIncome.Equal(dec("2000")))
}

func TestEngineIsIdempotent(t *testing.T) {
	e := testEngine(t)
	in := ontarioInput()
	ytd := domain.YTDTotals{Gross: dec("30000"), Cpp: dec("1500"), Ei: dec("400"), FederalTax: dec("2600"), ProvincialTax: dec("1300"), TaxableIncome: dec("30000")}

	first, err := e.Calculate(2025, domain.EditionJanuary, in, ytd)
	require.NoError(t, err)
	second, err := e.Calculate(2025, domain.EditionJanuary, in, ytd)
	require.NoError(t, err)

	// Identical inputs produce identical amounts; only the calculation ID
	// differs between runs.
	assert.True(t, first.Cpp.Equal(second.Cpp))
	assert.True(t, first.Ei.Equal(second.Ei))
	assert.True(t, first.FederalTax.Equal(second.FederalTax))
	assert.True(t, first.ProvincialTax.Equal(second.ProvincialTax))
	assert.True(t, first.NetPay.Equal(second.NetPay))
	assert.True(t, first.UpdatedYtd.Gross.Equal(second.UpdatedYtd.Gross))
	assert.NotEqual(t, first.CalculationID, second.CalculationID)
}

func TestEngineDoesNotMutateCallerYtd(t *testing.T) {
	e := testEngine(t)
	in := ontarioInput()
	ytd := domain.YTDTotals{Gross: dec("10000"), Cpp: dec("500")}

	_, err := e.Calculate(2025, domain.EditionJanuary, in, ytd)
	require.NoError(t, err)

	assert.True(t, ytd.Gross.Equal(dec("10000")))
	assert.True(t, ytd.Cpp.Equal(dec("500")))
}

func TestEngineCapReasons(t *testing.T) {
	e := testEngine(t)
	in := ontarioInput()
	ytd := domain.YTDTotals{
		Gross: dec("90000"),
		Cpp:   dec("4230.45"),
		Cpp2:  dec("416.00"),
		Ei:    dec("1077.48"),
	}

	result, err := e.Calculate(2025, domain.EditionJanuary, in, ytd)
	require.NoError(t, err)

	assert.True(t, result.Cpp.IsZero())
	assert.True(t, result.Cpp2.IsZero())
	assert.True(t, result.Ei.IsZero())
	assert.True(t, result.HasReason(domain.ReasonCppMaxReached))
	assert.True(t, result.HasReason(domain.ReasonCpp2MaxReached))
	// The premium is zero and the annual premium maximum is already withheld;
	// the zero carries the cap state so UIs can show "maximum reached".
	assert.True(t, result.HasReason(domain.ReasonEiMaxReached))
}

func TestEngineEiCapReasonAtMaximum(t *testing.T) {
	e := testEngine(t)
	in := ontarioInput()

	// EI YTD exactly at the statutory maximum: the zero premium must be
	// distinguishable as a cap state, just like CPP2 at its maximum.
	atMax := domain.YTDTotals{Gross: dec("70000"), Ei: dec("1077.48")}
	result, err := e.Calculate(2025, domain.EditionJanuary, in, atMax)
	require.NoError(t, err)
	assert.True(t, result.Ei.IsZero())
	assert.True(t, result.HasReason(domain.ReasonEiMaxReached))

	// Insurable earnings exhausted with premium room still open is not a cap:
	// nothing was clamped against the premium maximum.
	belowMax := domain.YTDTotals{Gross: dec("70000"), Ei: dec("1000.00")}
	result, err = e.Calculate(2025, domain.EditionJanuary, in, belowMax)
	require.NoError(t, err)
	assert.True(t, result.Ei.IsZero())
	assert.False(t, result.HasReason(domain.ReasonEiMaxReached))
}

func TestEngineIndependentEmployers(t *testing.T) {
	e := testEngine(t)

	// Two employers, two disjoint YTD streams, same employee and year. Each
	// stream caps against the statutory maximum independently; the combined
	// withholding legitimately exceeds the single-employer maximum.
	runYear := func() decimal.Decimal {
		ytd := domain.YTDTotals{}
		total := decimal.Zero
		for period := 0; period < 26; period++ {
			in := ontarioInput()
			in.GrossPay = dec("8000")
			result, err := e.Calculate(2025, domain.EditionJanuary, in, ytd)
			require.NoError(t, err)
			total = total.Add(result.Cpp)
			ytd = result.UpdatedYtd
		}
		return total
	}

	employerA := runYear()
	employerB := runYear()

	assert.True(t, employerA.Equal(dec("4230.45")), "each employer reaches the cap: got %s", employerA)
	assert.True(t, employerA.Add(employerB).GreaterThan(dec("4230.45")),
		"combined withholding exceeds the single-employer maximum")
}

func TestEngineBonusPath(t *testing.T) {
	e := testEngine(t)
	in := ontarioInput()
	in.PeriodsElapsed = 1
	in.NonPeriodicPayment = dec("5000")

	result, err := e.Calculate(2025, domain.EditionJanuary, in, domain.YTDTotals{})
	require.NoError(t, err)

	assert.True(t, result.FederalTaxOnBonus.IsPositive())
	assert.True(t, result.ProvincialTaxOnBonus.IsPositive())
	assert.True(t, result.UpdatedYtd.Gross.Equal(dec("7000")), "bonus counts toward YTD gross")
	assert.True(t, result.UpdatedYtd.TaxableIncome.Equal(dec("7000")))
	assert.True(t, result.UpdatedYtd.FederalTax.Equal(result.FederalTax.Add(result.FederalTaxOnBonus)))

	expectedNet := dec("7000").Sub(result.TotalWithheld())
	assert.True(t, result.NetPay.Equal(expectedNet))
}

func TestEngineSanityWarning(t *testing.T) {
	e := testEngine(t)

	// Cumulative catch-up: heavy income to date with nothing withheld yet,
	// then a trivial period. The catch-up withholding dwarfs the period's
	// gross; the engine flags it for review but returns the derived figures
	// untouched.
	in := ontarioInput()
	in.GrossPay = dec("100")
	in.Method = domain.MethodCumulative
	in.PeriodsElapsed = 2
	ytd := domain.YTDTotals{Gross: dec("100000"), TaxableIncome: dec("100000")}

	result, err := e.Calculate(2025, domain.EditionJanuary, in, ytd)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SanityWarnings)
	assert.True(t, result.FederalTax.GreaterThan(in.GrossPay))
	assert.True(t, result.NetPay.IsNegative())
}

func TestEngineInputErrors(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name   string
		mutate func(*domain.PayPeriodInput)
	}{
		{"negative gross", func(in *domain.PayPeriodInput) { in.GrossPay = dec("-1") }},
		{"zero pay periods", func(in *domain.PayPeriodInput) { in.PayPeriodsPerYear = 0 }},
		{"unknown province", func(in *domain.PayPeriodInput) { in.Province = "XX" }},
		{"unknown method", func(in *domain.PayPeriodInput) { in.Method = "option3" }},
		{"cumulative without elapsed periods", func(in *domain.PayPeriodInput) {
			in.Method = domain.MethodCumulative
			in.PeriodsElapsed = 0
		}},
		{"bonus without elapsed periods", func(in *domain.PayPeriodInput) { in.NonPeriodicPayment = dec("500") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ontarioInput()
			tt.mutate(in)
			_, err := e.Calculate(2025, domain.EditionJanuary, in, domain.YTDTotals{})
			assert.ErrorIs(t, err, domain.ErrInput)
		})
	}
}

func TestEngineMissingTable(t *testing.T) {
	e := testEngine(t)
	in := ontarioInput()

	_, err := e.Calculate(2024, domain.EditionJanuary, in, domain.YTDTotals{})
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, err = e.Calculate(2025, domain.EditionJuly, in, domain.YTDTotals{})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestCalcStateLabels(t *testing.T) {
	labels := map[calcState]string{
		stateReceived:              "received",
		stateContributionsComputed: "contributions computed",
		stateTaxComputed:           "tax computed",
		stateFinalized:             "finalized",
	}
	for state, label := range labels {
		assert.Equal(t, label, state.String())
	}
	assert.Equal(t, "unknown", calcState(99).String())
}

func TestEngineBatchPartialFailure(t *testing.T) {
	e := testEngine(t)

	good := ontarioInput()
	bad := ontarioInput()
	bad.EmployeeID = "emp-002"
	bad.GrossPay = dec("-50")
	alsoGood := ontarioInput()
	alsoGood.EmployeeID = "emp-003"

	batch := e.CalculateBatch(2025, domain.EditionJanuary, []BatchItem{
		{Input: *good},
		{Input: *bad},
		{Input: *alsoGood},
	})

	assert.NotEmpty(t, batch.RunID)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Items, 3)
	assert.NotNil(t, batch.Items[0].Result)
	assert.Empty(t, batch.Items[0].Error)
	assert.Nil(t, batch.Items[1].Result)
	assert.Contains(t, batch.Items[1].Error, "gross_pay")
	assert.NotNil(t, batch.Items[2].Result)
}
