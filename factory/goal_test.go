package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pocket-ledger/factory"
	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

func TestParseGoal_Investment(t *testing.T) {
	f := factory.NewGoalFactory()

	goal, model, err := f.ParseGoal(factory.InvestmentGoalJSON("house", "House", 50000, 36, 7.5))
	require.NoError(t, err)

	assert.Equal(t, ledger.AccountID("house"), goal.ID)
	assert.Equal(t, ledger.GoalInvestment, goal.Kind)
	assert.Equal(t, 36, goal.DurationMonths)
	assert.True(t, goal.TargetAmount.Equal(generic.NewAmountFromInt(50000)))
	assert.True(t, goal.AnnualReturnPercentage.Value.Equal(generic.MustParseDecimal("7.5")))

	require.NotNil(t, model)
	assert.IsType(t, ledger.SimpleDailyRate{}, model)
}

func TestParseGoal_SavingHasNoModel(t *testing.T) {
	f := factory.NewGoalFactory()

	goal, model, err := f.ParseGoal(factory.SavingGoalJSON("trip", "Trip", 3000, 6))
	require.NoError(t, err)
	assert.Equal(t, ledger.GoalSaving, goal.Kind)
	assert.Nil(t, model)
}

func TestParseGoal_OptionalFields(t *testing.T) {
	f := factory.NewGoalFactory()

	goal, _, err := f.ParseGoal(`{
		"name": "Fund",
		"type": "investment",
		"targetAmount": 1000,
		"duration": 12,
		"annualReturnPercentage": 5,
		"createdAt": "2025-01-01T10:00:00Z",
		"lastReturnCalculationDate": "2025-02-01"
	}`)
	require.NoError(t, err)

	assert.Empty(t, goal.ID)
	assert.Equal(t, 2025, goal.CreatedAt.Year())
	assert.True(t, goal.LastReturnCalculationDate.Equal(generic.MustParseDay("2025-02-01")))
}

func TestParseGoal_Invalid(t *testing.T) {
	f := factory.NewGoalFactory()

	tests := []struct {
		name    string
		json    string
		message string
	}{
		{"not json", `{`, ""},
		{"missing name", `{"type":"saving","targetAmount":10}`, "name"},
		{"unknown type", `{"name":"x","type":"crypto"}`, "type"},
		{"negative target", `{"name":"x","type":"saving","targetAmount":-5}`, "targetAmount"},
		{"rate above 100", `{"name":"x","type":"investment","annualReturnPercentage":150}`, "annualReturnPercentage"},
		{"saving with rate", `{"name":"x","type":"saving","annualReturnPercentage":3}`, "annualReturnPercentage"},
		{"bad checkpoint", `{"name":"x","type":"investment","lastReturnCalculationDate":"01/02/2025"}`, "lastReturnCalculationDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.ParseGoal(tt.json)
			require.Error(t, err)
			assert.ErrorIs(t, err, generic.ErrInvalidGoal)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseGoals(t *testing.T) {
	f := factory.NewGoalFactory()

	goals, err := f.ParseGoals(`[` +
		factory.SavingGoalJSON("a", "A", 100, 1) + `,` +
		factory.InvestmentGoalJSON("b", "B", 200, 2, 4) + `]`)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, ledger.AccountID("b"), goals[1].ID)

	_, err = f.ParseGoals(`[{"name":"ok","type":"saving"},{"type":"saving"}]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goal 1")
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := factory.NewGoalFactory()

	goal, _, err := f.ParseGoal(factory.InvestmentGoalJSON("g", "G", 900, 9, 3))
	require.NoError(t, err)
	goal.LastReturnCalculationDate = generic.MustParseDay("2025-05-05")

	back, _, err := f.FromJSON(f.ToJSON(goal))
	require.NoError(t, err)
	assert.Equal(t, goal.ID, back.ID)
	assert.True(t, back.LastReturnCalculationDate.Equal(goal.LastReturnCalculationDate))
	assert.True(t, back.AnnualReturnPercentage.Value.Equal(goal.AnnualReturnPercentage.Value))
}
