package generic_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pocket-ledger/generic"
)

func TestAmount_RoundUnitsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"164.38", 164},
		{"164.5", 165},
		{"-164.5", -165},
		{"0.49", 0},
		{"0.5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a := generic.NewAmountFromDecimal(generic.MustParseDecimal(tt.in))
			assert.True(t, a.RoundUnits().Equal(generic.NewAmountFromInt(tt.want)))
		})
	}
}

func TestAmount_MinMaxSum(t *testing.T) {
	a, b := generic.NewAmountFromInt(3), generic.NewAmountFromInt(7)

	assert.True(t, a.Min(b).Equal(a))
	assert.True(t, a.Max(b).Equal(b))
	assert.True(t, generic.Sum(a, b, a).Equal(generic.NewAmountFromInt(13)))
	assert.True(t, generic.Sum().IsZero())
}

func TestAmount_JSON(t *testing.T) {
	data, err := json.Marshal(generic.NewAmountFromDecimal(generic.MustParseDecimal("12.5")))
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(data))

	var fromNumber, fromString generic.Amount
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"42.00"`), &fromString))
	assert.True(t, fromNumber.Equal(fromString))
}

func TestAmount_Format(t *testing.T) {
	a := generic.NewAmountFromDecimal(generic.MustParseDecimal("1234.5"))
	assert.Equal(t, "$1,234.50", a.Format("USD"))

	assert.Equal(t, "-$10.00", generic.NewAmountFromInt(-10).Format("USD"))
	assert.Contains(t, generic.NewAmountFromInt(500).Format("JPY"), "500")
}

func TestPercent(t *testing.T) {
	p := generic.NewPercent(12)
	assert.True(t, p.Fraction().Equal(generic.MustParseDecimal("0.12")))
	assert.True(t, p.IsPositive())
	assert.Equal(t, "12%", p.String())

	var decoded generic.Percent
	require.NoError(t, json.Unmarshal([]byte(`7.5`), &decoded))
	assert.True(t, decoded.Value.Equal(generic.MustParseDecimal("7.5")))
}
