// Package money converts between the decimal amounts used at the API
// boundary and the int64 minor units stored internally. Balances and
// transaction amounts never exist as floats inside the system.
package money

import "github.com/shopspring/decimal"

// Places is the fixed decimal precision for human-readable amounts.
const Places = 2

// ToMinor converts a boundary amount to minor units, rounding half away
// from zero at two decimal places.
func ToMinor(d decimal.Decimal) int64 {
	return d.Round(Places).Shift(Places).IntPart()
}

// FromMinor converts minor units back to a decimal amount.
func FromMinor(m int64) decimal.Decimal {
	return decimal.New(m, -Places)
}

// Format renders minor units as a fixed two-decimal string for responses.
func Format(m int64) string {
	return FromMinor(m).StringFixed(Places)
}
