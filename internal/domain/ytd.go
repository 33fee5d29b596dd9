package domain

import (
	"github.com/shopspring/decimal"
)

// YTDTotals is one employee's running totals with a single employer in a
// single tax year. The engine never mutates a snapshot it is given; each
// successful calculation returns the successor snapshot and the caller
// carries it forward. Totals from other employers are deliberately invisible:
// every employer caps contributions against its own ledger only.
type YTDTotals struct {
	Gross          decimal.Decimal `yaml:"gross" json:"gross"`
	Cpp            decimal.Decimal `yaml:"cpp" json:"cpp"`
	Cpp2           decimal.Decimal `yaml:"cpp2" json:"cpp2"`
	Ei             decimal.Decimal `yaml:"ei" json:"ei"`
	FederalTax     decimal.Decimal `yaml:"federal_tax" json:"federal_tax"`
	ProvincialTax  decimal.Decimal `yaml:"provincial_tax" json:"provincial_tax"`
	PensionContrib decimal.Decimal `yaml:"pension_contrib" json:"pension_contrib"`

	// TaxableIncome accumulates net taxable income (gross less F and F1)
	// for cumulative-averaging and bonus calculations.
	TaxableIncome decimal.Decimal `yaml:"taxable_income" json:"taxable_income"`
}

// CppRoom returns the contribution room left under the CPP annual maximum.
func (y YTDTotals) CppRoom(p CppEiParams) decimal.Decimal {
	return capRoom(p.CppMax, y.Cpp)
}

// Cpp2Room returns the contribution room left under the CPP2 annual maximum.
func (y YTDTotals) Cpp2Room(p CppEiParams) decimal.Decimal {
	return capRoom(p.Cpp2Max, y.Cpp2)
}

// EiRoom returns the premium room left under the EI annual maximum.
func (y YTDTotals) EiRoom(p CppEiParams) decimal.Decimal {
	return capRoom(p.EiMax, y.Ei)
}

// capRoom implements "remaining room = max - ytd, never negative".
func capRoom(max, ytd decimal.Decimal) decimal.Decimal {
	room := max.Sub(ytd)
	if room.IsNegative() {
		return decimal.Zero
	}
	return room
}

// CapToRoom clamps amount to the remaining room under max given the running
// total, never returning a negative figure.
func CapToRoom(amount, max, ytd decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	room := capRoom(max, ytd)
	return decimal.Min(amount, room)
}
