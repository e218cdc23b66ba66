/*
balance.go - Balance Projector

PURPOSE:
  Answers "how much is in each pocket and goal?" by folding the transaction
  log into per-account totals. There is no stored balance that could drift
  from the log.

ALGORITHM:
  Every account starts at 0.
    income   +amount on the credited account
    expense  -amount on the debited account
    transfer -amount on the source, +amount on the target

  Addition is commutative, so the order of transactions does not matter.
  Transfers net to zero, which gives the conservation law:

    Σ balances == Σ income - Σ expense

INVESTMENT GOALS:
  The projector knows nothing about simulated returns. For an investment
  goal it reports deposits minus withdrawals; facade.go adds accrued growth.

SEE ALSO:
  - facade.go: CurrentBalance combines this with reconstruct.go
*/
package ledger

import (
	"sort"

	"github.com/warp/pocket-ledger/generic"
)

// UnassignedAccount collects amounts whose account id is missing.
const UnassignedAccount AccountID = ""

// Balances maps account ids (pockets and goals) to their derived balance.
type Balances map[AccountID]generic.Amount

// ProjectBalances computes every account balance from the transaction log.
// Transactions of an unknown kind are skipped; the creation boundary rejects them.
// A transaction missing an account books that side on UnassignedAccount, so
// the conservation law holds for any input.
func ProjectBalances(txs []Transaction) Balances {
	balances := make(Balances)
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			credit := tx.CreditAccount()
			balances[credit] = balances.Of(credit).Add(tx.Amount)
		case KindExpense:
			debit := tx.DebitAccount()
			balances[debit] = balances.Of(debit).Sub(tx.Amount)
		case KindTransfer:
			debit, credit := tx.DebitAccount(), tx.CreditAccount()
			balances[debit] = balances.Of(debit).Sub(tx.Amount)
			balances[credit] = balances.Of(credit).Add(tx.Amount)
		}
	}
	return balances
}

// Of returns the balance of one account, zero if it has no transactions.
func (b Balances) Of(id AccountID) generic.Amount {
	if amount, ok := b[id]; ok {
		return amount
	}
	return generic.ZeroAmount()
}

// Total sums every account.
func (b Balances) Total() generic.Amount {
	total := generic.ZeroAmount()
	for _, amount := range b {
		total = total.Add(amount)
	}
	return total
}

// Accounts returns the account ids in lexical order.
func (b Balances) Accounts() []AccountID {
	ids := make([]AccountID, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NetIncome returns Σ income - Σ expense, the value Total must always equal.
func NetIncome(txs []Transaction) generic.Amount {
	net := generic.ZeroAmount()
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			net = net.Add(tx.Amount)
		case KindExpense:
			net = net.Sub(tx.Amount)
		}
	}
	return net
}
