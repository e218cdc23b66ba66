/*
facade.go - Goal Balance Facade

PURPOSE:
  The one number every consumer shows as a goal's "current balance".

  Saving goal      the projector's total for the goal id
  Investment goal  principal + accrued return from the replayed timeline

  Run the accrual simulator first (Service.CurrentBalance does) so the
  activity log is current before reading an investment balance.

EQUIVALENCE:
  For an investment goal with an empty activity log and no withdrawal larger
  than what the goal holds, both paths give the same number. With returns on
  the log the investment balance exceeds the projector by exactly the sum of
  those returns.

SEE ALSO:
  - balance.go, reconstruct.go
*/
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/warp/pocket-ledger/generic"
)

// CurrentBalance returns the displayed balance of a goal.
func CurrentBalance(goal Goal, txs []Transaction, activities []ActivityEntry) generic.Amount {
	if goal.IsInvestment() {
		return ReconstructGoalState(goal.ID, txs, activities).Balance()
	}
	return ProjectBalances(txs).Of(goal.ID)
}

// =============================================================================
// GOAL PROGRESS - Balance against target and deadline
// =============================================================================

type GoalProgress struct {
	Balance       generic.Amount    `json:"balance"`
	Target        generic.Amount    `json:"target"`
	Remaining     generic.Amount    `json:"remaining"`
	Percent       generic.Percent   `json:"percent"`
	Deadline      generic.TimePoint `json:"deadline"`
	MonthsLeft    int               `json:"monthsLeft"`
	MonthlyNeeded generic.Amount    `json:"monthlyNeeded"`
	Completed     bool              `json:"completed"`
}

// Progress relates a goal's balance to its target. The deadline is the
// creation day plus DurationMonths; a goal without a duration has none.
func Progress(goal Goal, balance generic.Amount, today generic.TimePoint) GoalProgress {
	p := GoalProgress{
		Balance:       balance,
		Target:        goal.TargetAmount,
		Remaining:     goal.TargetAmount.Sub(balance).Max(generic.ZeroAmount()),
		Percent:       generic.Percent{Value: decimal.Zero},
		MonthlyNeeded: generic.ZeroAmount(),
	}

	if goal.TargetAmount.IsPositive() {
		p.Percent = generic.Percent{Value: balance.Value.Div(goal.TargetAmount.Value).Mul(decimal.NewFromInt(100)).Round(2)}
		p.Completed = !balance.LessThan(goal.TargetAmount)
	}

	if goal.DurationMonths > 0 && !goal.CreatedAt.IsZero() {
		p.Deadline = generic.DayOf(goal.CreatedAt).AddMonths(goal.DurationMonths)
		p.MonthsLeft = generic.MonthsBetween(today, p.Deadline)
		months := p.MonthsLeft
		if months < 1 {
			months = 1
		}
		p.MonthlyNeeded = generic.NewAmountFromDecimal(p.Remaining.Value.Div(decimal.NewFromInt(int64(months))).Ceil())
	}
	return p
}
