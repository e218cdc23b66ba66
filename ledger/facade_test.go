package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

func TestCurrentBalance_SavingGoalUsesProjector(t *testing.T) {
	goal := savingGoal("g", 5000, day(0))
	txs := []ledger.Transaction{
		pocketToGoal("main", "g", 1000, day(0)),
		goalToPocket("g", "main", 300, day(2)),
		incomeToGoal("g", 50, day(3)),
	}

	balance := ledger.CurrentBalance(goal, txs, nil)

	assert.True(t, balance.Equal(amt(750)))
	assert.True(t, balance.Equal(ledger.ProjectBalances(txs).Of("g")))
}

func TestCurrentBalance_InvestmentMatchesProjectorWithoutReturns(t *testing.T) {
	// GIVEN: No daily returns and no overdraw
	// THEN: Both paths of the facade agree
	goal := investmentGoal("g", 12, day(0))
	txs := []ledger.Transaction{
		pocketToGoal("main", "g", 1000, day(0)),
		incomeToGoal("g", 400, day(1)),
		goalToPocket("g", "main", 600, day(2)),
		{ID: "goal-expense", Kind: ledger.KindExpense, Amount: amt(100), SourceGoalID: "g", Date: day(3)},
	}

	assert.True(t, ledger.CurrentBalance(goal, txs, nil).Equal(ledger.ProjectBalances(txs).Of("g")))
}

func TestCurrentBalance_InvestmentAddsReturnsOverProjector(t *testing.T) {
	goal := investmentGoal("g", 12, day(0))
	txs := []ledger.Transaction{pocketToGoal("main", "g", 500000, day(0))}
	var acts []ledger.ActivityEntry
	ledger.RunDailyAccrual(&goal, txs, &acts, day(30))

	balance := ledger.CurrentBalance(goal, txs, acts)
	projected := ledger.ProjectBalances(txs).Of("g")

	assert.True(t, balance.Equal(projected.Add(sumEntries(acts))))
	assert.True(t, balance.GreaterThan(projected))
}

func TestProgress_HalfwayToTarget(t *testing.T) {
	goal := savingGoal("g", 1000, day(0))
	today := day(0)

	p := ledger.Progress(goal, amt(250), today)

	assert.True(t, p.Percent.Value.Equal(decimal.NewFromInt(25)))
	assert.True(t, p.Remaining.Equal(amt(750)))
	assert.True(t, p.Deadline.Equal(generic.NewTimePoint(2026, time.January, 1)))
	assert.Equal(t, 12, p.MonthsLeft)
	assert.True(t, p.MonthlyNeeded.Equal(amt(63)), "monthly = %s", p.MonthlyNeeded)
	assert.False(t, p.Completed)
}

func TestProgress_Completed(t *testing.T) {
	goal := savingGoal("g", 1000, day(0))

	p := ledger.Progress(goal, amt(1200), day(40))

	assert.True(t, p.Completed)
	assert.True(t, p.Remaining.IsZero())
	assert.True(t, p.Percent.Value.Equal(decimal.NewFromInt(120)))
	assert.True(t, p.MonthlyNeeded.IsZero())
}

func TestProgress_PastDeadline(t *testing.T) {
	goal := savingGoal("g", 1000, day(0))

	p := ledger.Progress(goal, amt(400), day(500))

	assert.Equal(t, 0, p.MonthsLeft)
	assert.True(t, p.MonthlyNeeded.Equal(amt(600)))
}

func TestProgress_NoTarget(t *testing.T) {
	goal := savingGoal("g", 0, day(0))
	goal.DurationMonths = 0

	p := ledger.Progress(goal, amt(10), day(3))

	assert.True(t, p.Percent.Value.IsZero())
	assert.True(t, p.Deadline.IsZero())
	assert.False(t, p.Completed)
}
