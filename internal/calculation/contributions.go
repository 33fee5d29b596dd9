package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/domain"
)

// ContributionCalculator computes CPP, CPP2 and EI for one pay period against
// a single employer's running totals. It never sees other employers' totals;
// over-withholding across concurrent employments is resolved at year-end by
// the employee, not here.
type ContributionCalculator struct {
	Params domain.CppEiParams
}

// NewContributionCalculator creates a contribution calculator for one
// tax-year edition's parameters.
func NewContributionCalculator(params domain.CppEiParams) *ContributionCalculator {
	return &ContributionCalculator{Params: params}
}

// ContributionResult is one contribution amount plus the successor YTD figure.
type ContributionResult struct {
	Amount     decimal.Decimal
	NewYtd     decimal.Decimal
	CapReached bool
}

// ComputeCpp calculates the base CPP contribution for the period, capped to
// the room the YTD snapshot leaves under the annual maximum.
func (cc *ContributionCalculator) ComputeCpp(gross decimal.Decimal, periodsPerYear int, ytd domain.YTDTotals) ContributionResult {
	exemption := truncate2(cc.Params.BasicExemption.Div(decimal.NewFromInt(int64(periodsPerYear))))

	raw := gross.Sub(exemption).Mul(cc.Params.CppRate)
	if raw.IsNegative() {
		return ContributionResult{Amount: decimal.Zero, NewYtd: ytd.Cpp}
	}

	amount := round2(raw)
	capped := amount.GreaterThan(ytd.CppRoom(cc.Params))
	amount = domain.CapToRoom(amount, cc.Params.CppMax, ytd.Cpp)
	return ContributionResult{Amount: amount, NewYtd: ytd.Cpp.Add(amount), CapReached: capped}
}

// ComputeCpp2 calculates the second additional CPP contribution for the
// period. The algorithm is cumulative-delta: the period amount is always the
// total CPP2 owed on earnings to date minus CPP2 already withheld, which
// handles a single period straddling the YMPE or YAMPE boundary.
func (cc *ContributionCalculator) ComputeCpp2(gross decimal.Decimal, ytd domain.YTDTotals) ContributionResult {
	newYtdGross := ytd.Gross.Add(gross)
	if newYtdGross.LessThanOrEqual(cc.Params.YMPE) {
		return ContributionResult{Amount: decimal.Zero, NewYtd: ytd.Cpp2}
	}

	pensionable := decimal.Min(newYtdGross, cc.Params.YAMPE).Sub(cc.Params.YMPE)
	pensionable = clampZero(pensionable)
	cumulative := round2(pensionable.Mul(cc.Params.Cpp2Rate))

	amount := clampZero(cumulative.Sub(ytd.Cpp2))
	room := ytd.Cpp2Room(cc.Params)
	capped := amount.GreaterThan(room)
	amount = domain.CapToRoom(amount, cc.Params.Cpp2Max, ytd.Cpp2)
	if amount.IsZero() && room.IsZero() {
		capped = true
	}
	return ContributionResult{Amount: amount, NewYtd: ytd.Cpp2.Add(amount), CapReached: capped}
}

// EiResult is the EI premium pair: the employee premium is withheld, the
// employer premium is reported only.
type EiResult struct {
	Amount     decimal.Decimal
	Employer   decimal.Decimal
	NewYtd     decimal.Decimal
	CapReached bool
}

// ComputeEi calculates the EI premium for the period. YTD gross bounds the
// insurable earnings: once year-to-date earnings pass the maximum insurable
// amount, no further premium accrues. A zero premium with the annual premium
// maximum already withheld still reports the cap state, matching CPP2.
func (cc *ContributionCalculator) ComputeEi(gross decimal.Decimal, ytd domain.YTDTotals) EiResult {
	insurableRoom := clampZero(cc.Params.EiMaxInsurable.Sub(ytd.Gross))
	raw := round2(decimal.Min(gross, insurableRoom).Mul(cc.Params.EiRate))

	room := ytd.EiRoom(cc.Params)
	capped := raw.GreaterThan(room)
	amount := domain.CapToRoom(raw, cc.Params.EiMax, ytd.Ei)
	if amount.IsZero() && room.IsZero() {
		capped = true
	}
	return EiResult{
		Amount:     amount,
		Employer:   round2(amount.Mul(cc.Params.EmployerEiMultiplier)),
		NewYtd:     ytd.Ei.Add(amount),
		CapReached: capped,
	}
}
