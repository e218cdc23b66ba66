package ledger_test

import (
	"fmt"
	"time"

	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var epoch = generic.NewTimePoint(2025, time.January, 1)

// day returns epoch + n days.
func day(n int) generic.TimePoint {
	return epoch.AddDays(n)
}

func amt(v int64) generic.Amount {
	return generic.NewAmountFromInt(v)
}

var txSeq int

func nextID(prefix string) string {
	txSeq++
	return fmt.Sprintf("%s-%d", prefix, txSeq)
}

func incomeTo(pocket ledger.AccountID, v int64, d generic.TimePoint) ledger.Transaction {
	return ledger.Transaction{ID: nextID("inc"), Kind: ledger.KindIncome, Amount: amt(v), TargetPocketID: pocket, Date: d}
}

func incomeToGoal(goal ledger.AccountID, v int64, d generic.TimePoint) ledger.Transaction {
	return ledger.Transaction{ID: nextID("inc"), Kind: ledger.KindIncome, Amount: amt(v), TargetGoalID: goal, Date: d}
}

func expenseFrom(pocket ledger.AccountID, v int64, d generic.TimePoint) ledger.Transaction {
	return ledger.Transaction{ID: nextID("exp"), Kind: ledger.KindExpense, Amount: amt(v), SourcePocketID: pocket, Date: d}
}

func pocketToGoal(pocket, goal ledger.AccountID, v int64, d generic.TimePoint) ledger.Transaction {
	return ledger.Transaction{ID: nextID("tr"), Kind: ledger.KindTransfer, Amount: amt(v), SourcePocketID: pocket, TargetGoalID: goal, Date: d}
}

func goalToPocket(goal, pocket ledger.AccountID, v int64, d generic.TimePoint) ledger.Transaction {
	return ledger.Transaction{ID: nextID("tr"), Kind: ledger.KindTransfer, Amount: amt(v), SourceGoalID: goal, TargetPocketID: pocket, Date: d}
}

func pocketToPocket(from, to ledger.AccountID, v int64, d generic.TimePoint) ledger.Transaction {
	return ledger.Transaction{ID: nextID("tr"), Kind: ledger.KindTransfer, Amount: amt(v), SourcePocketID: from, TargetPocketID: to, Date: d}
}

func dailyReturn(goal ledger.AccountID, v int64, d generic.TimePoint) ledger.ActivityEntry {
	return ledger.ActivityEntry{ID: nextID("act"), GoalID: goal, Date: d, Amount: amt(v), Label: ledger.DailyReturnLabel}
}

func investmentGoal(id ledger.AccountID, ratePercent float64, created generic.TimePoint) ledger.Goal {
	return ledger.Goal{
		ID:                     id,
		Name:                   "Invest " + string(id),
		TargetAmount:           amt(1000000),
		DurationMonths:         12,
		Kind:                   ledger.GoalInvestment,
		AnnualReturnPercentage: generic.NewPercent(ratePercent),
		CreatedAt:              created.Time,
	}
}

func savingGoal(id ledger.AccountID, target int64, created generic.TimePoint) ledger.Goal {
	return ledger.Goal{
		ID:             id,
		Name:           "Save " + string(id),
		TargetAmount:   amt(target),
		DurationMonths: 12,
		Kind:           ledger.GoalSaving,
		CreatedAt:      created.Time,
	}
}

func sumEntries(entries []ledger.ActivityEntry) generic.Amount {
	total := generic.ZeroAmount()
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
