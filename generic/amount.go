/*
Package generic provides the domain-agnostic primitives of the ledger engine.

PURPOSE:
  Money amounts, calendar days and day ranges. Nothing in this package knows
  about pockets, goals or transactions; the ledger package builds on it.

KEY CONCEPTS IN THIS FILE (amount.go):
  - Amount: a money quantity backed by decimal.Decimal
  - Rounding: whole-unit rounding, half away from zero

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, never float64 arithmetic
  2. Plain JSON: an Amount is written as a bare JSON number
  3. Display only: go-money formats amounts, it never computes them

USAGE:
  a := generic.NewAmountFromInt(500000)
  growth := a.Mul(rate).RoundUnits()

SEE ALSO:
  - time.go: TimePoint (calendar day)
  - period.go: Period (inclusive day range)
*/
package generic

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Money quantity in whole currency units
// =============================================================================

// Amount is a money quantity. The currency is a ledger-wide setting, so an
// Amount carries only its value.
type Amount struct {
	Value decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value)}
}

func NewAmountFromInt(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value)}
}

func NewAmountFromDecimal(value decimal.Decimal) Amount {
	return Amount{Value: value}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func ZeroAmount() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s)} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg()} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) String() string               { return a.Value.String() }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// RoundUnits rounds to whole currency units, half away from zero
// (164.5 -> 165, -164.5 -> -165).
func (a Amount) RoundUnits() Amount {
	return Amount{Value: a.Value.Round(0)}
}

// Format renders the amount for display in the given ISO 4217 currency,
// e.g. "$1,234.50" for USD. Unknown codes fall back to go-money's defaults.
func (a Amount) Format(currency string) string {
	// money.New never returns a nil currency, unlike money.GetCurrency.
	cur := money.New(0, currency).Currency()
	minor := a.Value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Sum adds amounts together.
func Sum(amounts ...Amount) Amount {
	total := ZeroAmount()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Value.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Value.UnmarshalJSON(data)
}
