package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

func TestProjectBalances_IncomeExpenseTransfer(t *testing.T) {
	txs := []ledger.Transaction{
		incomeTo("main", 3000, day(0)),
		expenseFrom("main", 500, day(1)),
		pocketToPocket("main", "fun", 700, day(2)),
		pocketToGoal("main", "house", 1000, day(3)),
		goalToPocket("house", "fun", 200, day(4)),
	}

	b := ledger.ProjectBalances(txs)

	assert.True(t, b.Of("main").Equal(amt(800)), "main = %s", b.Of("main"))
	assert.True(t, b.Of("fun").Equal(amt(900)))
	assert.True(t, b.Of("house").Equal(amt(800)))
	assert.True(t, b.Of("unknown").IsZero())
	assert.Equal(t, []ledger.AccountID{"fun", "house", "main"}, b.Accounts())
}

func TestProjectBalances_Empty(t *testing.T) {
	b := ledger.ProjectBalances(nil)
	assert.Empty(t, b)
	assert.True(t, b.Total().IsZero())
}

func TestProjectBalances_OrderIndependent(t *testing.T) {
	txs := []ledger.Transaction{
		incomeTo("main", 1000, day(5)),
		pocketToGoal("main", "g", 400, day(1)),
		expenseFrom("main", 50, day(3)),
		incomeToGoal("g", 25, day(0)),
	}
	reversed := make([]ledger.Transaction, len(txs))
	for i, tx := range txs {
		reversed[len(txs)-1-i] = tx
	}

	forward, backward := ledger.ProjectBalances(txs), ledger.ProjectBalances(reversed)
	require.Equal(t, forward.Accounts(), backward.Accounts())
	for _, id := range forward.Accounts() {
		assert.True(t, forward.Of(id).Equal(backward.Of(id)), "account %s", id)
	}
}

func TestProjectBalances_Conservation(t *testing.T) {
	// GIVEN: A mix of every kind, including records with missing accounts
	// THEN: Σ balances = Σ income - Σ expense
	txs := []ledger.Transaction{
		incomeTo("main", 5000, day(0)),
		incomeToGoal("g1", 1200, day(0)),
		expenseFrom("main", 300, day(1)),
		pocketToGoal("main", "g1", 900, day(2)),
		goalToPocket("g1", "spend", 450, day(3)),
		pocketToPocket("spend", "main", 100, day(4)),
		{ID: "orphan-income", Kind: ledger.KindIncome, Amount: amt(70), Date: day(5)},
		{ID: "orphan-transfer", Kind: ledger.KindTransfer, Amount: amt(30), SourcePocketID: "main", Date: day(5)},
		{ID: "goal-expense", Kind: ledger.KindExpense, Amount: amt(15), SourceGoalID: "g1", Date: day(6)},
	}

	b := ledger.ProjectBalances(txs)

	assert.True(t, b.Total().Equal(ledger.NetIncome(txs)), "total %s != net %s", b.Total(), ledger.NetIncome(txs))
	assert.True(t, b.Of(ledger.UnassignedAccount).Equal(amt(100)))
}

func TestProjectBalances_UnknownKindSkipped(t *testing.T) {
	txs := []ledger.Transaction{
		incomeTo("main", 100, day(0)),
		{ID: "weird", Kind: "refund", Amount: amt(999), TargetPocketID: "main", Date: day(0)},
	}

	b := ledger.ProjectBalances(txs)
	assert.True(t, b.Of("main").Equal(amt(100)))
	assert.True(t, b.Total().Equal(ledger.NetIncome(txs)))
}

func TestAccountResolution(t *testing.T) {
	tests := []struct {
		name   string
		tx     ledger.Transaction
		credit ledger.AccountID
		debit  ledger.AccountID
	}{
		{"income to pocket", ledger.Transaction{Kind: ledger.KindIncome, TargetPocketID: "p"}, "p", ""},
		{"income goal wins", ledger.Transaction{Kind: ledger.KindIncome, TargetPocketID: "p", TargetGoalID: "g"}, "g", ""},
		{"income source fallback", ledger.Transaction{Kind: ledger.KindIncome, SourcePocketID: "s"}, "s", ""},
		{"expense from pocket", ledger.Transaction{Kind: ledger.KindExpense, SourcePocketID: "p"}, "", "p"},
		{"expense goal wins", ledger.Transaction{Kind: ledger.KindExpense, SourcePocketID: "p", SourceGoalID: "g"}, "", "g"},
		{"transfer goal to pocket", ledger.Transaction{Kind: ledger.KindTransfer, SourceGoalID: "g", TargetPocketID: "p"}, "p", "g"},
		{"transfer pocket to goal", ledger.Transaction{Kind: ledger.KindTransfer, SourcePocketID: "p", TargetGoalID: "g"}, "g", "p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.credit, tt.tx.CreditAccount())
			assert.Equal(t, tt.debit, tt.tx.DebitAccount())
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	valid := incomeTo("main", 10, day(0))
	require.NoError(t, ledger.ValidateTransaction(valid))

	tests := []struct {
		name  string
		tx    ledger.Transaction
		field string
	}{
		{"unknown kind", ledger.Transaction{Kind: "gift", Amount: amt(1), TargetPocketID: "p", Date: day(0)}, "type"},
		{"zero amount", ledger.Transaction{Kind: ledger.KindIncome, Amount: generic.ZeroAmount(), TargetPocketID: "p", Date: day(0)}, "amount"},
		{"negative amount", ledger.Transaction{Kind: ledger.KindIncome, Amount: amt(-5), TargetPocketID: "p", Date: day(0)}, "amount"},
		{"missing date", ledger.Transaction{Kind: ledger.KindIncome, Amount: amt(5), TargetPocketID: "p"}, "date"},
		{"income without account", ledger.Transaction{Kind: ledger.KindIncome, Amount: amt(5), Date: day(0)}, "targetPocketId"},
		{"expense without account", ledger.Transaction{Kind: ledger.KindExpense, Amount: amt(5), Date: day(0)}, "sourcePocketId"},
		{"transfer without target", ledger.Transaction{Kind: ledger.KindTransfer, Amount: amt(5), SourcePocketID: "p", Date: day(0)}, "targetPocketId"},
		{"transfer to itself", ledger.Transaction{Kind: ledger.KindTransfer, Amount: amt(5), SourcePocketID: "p", TargetPocketID: "p", Date: day(0)}, "targetPocketId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.ValidateTransaction(tt.tx)
			require.Error(t, err)
			assert.ErrorIs(t, err, generic.ErrInvalidTransaction)

			var txErr *ledger.TransactionError
			require.ErrorAs(t, err, &txErr)
			assert.Equal(t, tt.field, txErr.Field)
		})
	}
}
