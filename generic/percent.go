package generic

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent is a percentage value: 12 means 12%.
type Percent struct {
	Value decimal.Decimal
}

func NewPercent(value float64) Percent { return Percent{Value: decimal.NewFromFloat(value)} }

// Fraction returns the percentage as a plain ratio (12% -> 0.12).
func (p Percent) Fraction() decimal.Decimal { return p.Value.Div(hundred) }

func (p Percent) IsPositive() bool { return p.Value.IsPositive() }
func (p Percent) IsNegative() bool { return p.Value.IsNegative() }
func (p Percent) String() string   { return p.Value.String() + "%" }

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.Value.String()), nil
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	return p.Value.UnmarshalJSON(data)
}
