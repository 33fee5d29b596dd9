package calculation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
	"github.com/maplepay/paycalc/internal/tables"
)

// calcState tracks the phases of a single employee-period calculation.
// Transitions are plain synchronous calls; a calculation never suspends.
type calcState int

const (
	stateReceived calcState = iota
	stateContributionsComputed
	stateTaxComputed
	stateFinalized
)

func (s calcState) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateContributionsComputed:
		return "contributions computed"
	case stateTaxComputed:
		return "tax computed"
	case stateFinalized:
		return "finalized"
	}
	return "unknown"
}

// Engine composes the contribution, income tax and bonus calculators for one
// employee-period at a time. It is the only entry point external callers use.
//
// The engine is pure: it never mutates the YTD snapshot it is given, and two
// calls with identical inputs return identical amounts (the CalculationID is
// the only varying field). Callers may run many employees in parallel against
// a shared Store, but periods for one employee+employer+year must be run in
// order: every period's caps and cumulative math depend on the prior
// period's snapshot.
type Engine struct {
	Store *tables.Store

	// SanityBound is the deductions-to-gross ratio above which the result is
	// flagged for manual review. The flagged result is still returned; the
	// engine never overrides a derived figure beyond the statutory clamps.
	SanityBound decimal.Decimal
}

// NewEngine creates an engine over the given table store with the default
// sanity bound (total deductions exceeding gross pay).
func NewEngine(store *tables.Store) *Engine {
	return &Engine{Store: store, SanityBound: decimal.NewFromInt(1)}
}

// Calculate runs one employee-period: contributions, income tax, bonus tax,
// net pay, successor YTD snapshot. The input snapshot is taken by value and
// never written; on any error the caller's state is untouched.
func (e *Engine) Calculate(year int, edition domain.Edition, in *domain.PayPeriodInput, ytd domain.YTDTotals) (*domain.CalculationResult, error) {
	state := stateReceived

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("state %s: %w", state, err)
	}
	cfg, err := e.Store.Lookup(year, edition)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", state, err)
	}
	prov, ok := cfg.Province(in.Province)
	if !ok {
		return nil, domain.NewInputError("province", "unknown province code %q for %s", in.Province, cfg.Key())
	}

	result := &domain.CalculationResult{
		CalculationID: uuid.NewString(),
		EmployeeID:    in.EmployeeID,
	}

	contrib := NewContributionCalculator(cfg.CppEi)
	cpp := contrib.ComputeCpp(in.GrossPay, in.PayPeriodsPerYear, ytd)
	cpp2 := contrib.ComputeCpp2(in.GrossPay, ytd)
	ei := contrib.ComputeEi(in.GrossPay, ytd)

	result.Cpp = cpp.Amount
	result.Cpp2 = cpp2.Amount
	result.Ei = ei.Amount
	result.EmployerEi = ei.Employer
	if cpp.CapReached {
		result.Reasons = append(result.Reasons, domain.ReasonCppMaxReached)
	}
	if cpp2.CapReached {
		result.Reasons = append(result.Reasons, domain.ReasonCpp2MaxReached)
	}
	if ei.CapReached {
		result.Reasons = append(result.Reasons, domain.ReasonEiMaxReached)
	}
	state = stateContributionsComputed

	incomeTax := NewIncomeTaxCalculator(cfg)
	taxes, err := incomeTax.Compute(in, prov, ytd, cpp.Amount, ei.Amount)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", state, err)
	}
	result.FederalTax = taxes.Federal
	result.ProvincialTax = taxes.Provincial
	state = stateTaxComputed

	bonusTax := NewBonusTaxCalculator(incomeTax)
	bonus, err := bonusTax.Compute(in, prov, ytd, taxes, cpp.Amount, ei.Amount)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", state, err)
	}
	result.FederalTaxOnBonus = bonus.Federal
	result.ProvincialTaxOnBonus = bonus.Provincial

	earnings := in.GrossPay.Add(in.NonPeriodicPayment)
	result.NetPay = earnings.
		Sub(result.TotalWithheld()).
		Sub(in.PensionContributions).
		Sub(in.UnionDues)

	result.UpdatedYtd = domain.YTDTotals{
		Gross:          ytd.Gross.Add(earnings),
		Cpp:            cpp.NewYtd,
		Cpp2:           cpp2.NewYtd,
		Ei:             ei.NewYtd,
		FederalTax:     ytd.FederalTax.Add(taxes.Federal).Add(bonus.Federal),
		ProvincialTax:  ytd.ProvincialTax.Add(taxes.Provincial).Add(bonus.Provincial),
		PensionContrib: ytd.PensionContrib.Add(in.PensionContributions),
		TaxableIncome:  ytd.TaxableIncome.Add(netPeriodIncome(in)).Add(in.NonPeriodicPayment),
	}

	e.checkSanity(result, earnings)
	state = stateFinalized

	return result, nil
}

// checkSanity attaches non-fatal warnings for figures a payroll clerk should
// eyeball. Warnings never change the computed amounts.
func (e *Engine) checkSanity(r *domain.CalculationResult, earnings decimal.Decimal) {
	bound := earnings.Mul(e.SanityBound)
	if r.TotalWithheld().GreaterThan(bound) {
		r.SanityWarnings = append(r.SanityWarnings,
			fmt.Sprintf("total deductions %s exceed %s of gross earnings %s",
				r.TotalWithheld().StringFixed(2), e.SanityBound.String(), earnings.StringFixed(2)))
	}
	for _, t := range []struct {
		name   string
		amount decimal.Decimal
	}{
		{"federal tax", r.FederalTax},
		{"provincial tax", r.ProvincialTax},
	} {
		if t.amount.GreaterThan(earnings) {
			r.SanityWarnings = append(r.SanityWarnings,
				fmt.Sprintf("%s %s exceeds gross earnings %s", t.name, t.amount.StringFixed(2), earnings.StringFixed(2)))
		}
	}
	if r.NetPay.IsNegative() {
		r.SanityWarnings = append(r.SanityWarnings,
			fmt.Sprintf("net pay is negative: %s", r.NetPay.StringFixed(2)))
	}
}

// BatchItem pairs one employee-period input with its YTD snapshot.
type BatchItem struct {
	Input domain.PayPeriodInput `yaml:"input" json:"input"`
	Ytd   domain.YTDTotals      `yaml:"ytd" json:"ytd"`
}

// BatchItemResult is one employee's outcome within a batch: a result or an
// error message, never both.
type BatchItemResult struct {
	EmployeeID string                    `json:"employee_id"`
	Result     *domain.CalculationResult `json:"result,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

// BatchResult is a whole pay run. Failed is the count of items whose
// calculation was rejected; their YTD state is untouched.
type BatchResult struct {
	RunID     string            `json:"run_id"`
	Items     []BatchItemResult `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// CalculateBatch processes many employees for one period. One employee's
// rejection never stops the rest of the run.
func (e *Engine) CalculateBatch(year int, edition domain.Edition, items []BatchItem) *BatchResult {
	batch := &BatchResult{RunID: uuid.NewString(), Items: make([]BatchItemResult, 0, len(items))}
	for i := range items {
		item := &items[i]
		res, err := e.Calculate(year, edition, &item.Input, item.Ytd)
		if err != nil {
			batch.Items = append(batch.Items, BatchItemResult{EmployeeID: item.Input.EmployeeID, Error: err.Error()})
			batch.Failed++
			continue
		}
		batch.Items = append(batch.Items, BatchItemResult{EmployeeID: item.Input.EmployeeID, Result: res})
		batch.Succeeded++
	}
	return batch
}
