// Package calculation implements the statutory deduction math: CPP/CPP2/EI
// contributions, federal and provincial income tax under both sanctioned
// withholding methods, bonus tax, and the engine that composes them per
// employee per pay period. Everything here is pure: identical inputs produce
// identical outputs, and no function touches state it was not handed.
package calculation

import "github.com/shopspring/decimal"

// round2 rounds to the cent, half away from zero. This is the rounding rule
// for every published deduction amount.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// truncate2 drops everything past the second decimal digit without rounding.
// The per-period basic exemption is the one figure the tables truncate rather
// than round: 3500/26 = 134.615... becomes 134.61, never 134.62.
func truncate2(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(2)
}

// clampZero floors a figure at zero.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
