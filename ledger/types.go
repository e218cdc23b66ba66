/*
Package ledger implements the pocket and goal balance engine.

PURPOSE:
  Balances are never stored. They are derived from the transaction log
  every time they are needed, and investment goals additionally replay a
  per-goal log of synthetic daily-return entries.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: income, expense or transfer between accounts
  - Pocket / Goal: the two kinds of account; ids share one keyspace
  - ActivityEntry: one day of simulated investment growth for a goal
  - AccountID resolution: which account a transaction credits or debits

ACCOUNT RESOLUTION:
  income   credits TargetGoalID, else TargetPocketID, else SourcePocketID
  expense  debits  SourceGoalID, else SourcePocketID
  transfer debits  SourceGoalID, else SourcePocketID
           credits TargetGoalID, else TargetPocketID

SEE ALSO:
  - balance.go: Balance Projector
  - reconstruct.go: Investment State Reconstructor
  - accrual.go: Daily Accrual Simulator
  - facade.go: Goal Balance Facade
  - service.go: store-backed orchestration
*/
package ledger

import (
	"time"

	"github.com/warp/pocket-ledger/generic"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// AccountID names a pocket or a goal. Pocket and goal ids share one keyspace.
type AccountID string

// =============================================================================
// TRANSACTION - Income, expense or transfer
// =============================================================================

type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

func (k TransactionKind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer:
		return true
	}
	return false
}

type Transaction struct {
	ID             string            `json:"id"`
	Kind           TransactionKind   `json:"type"`
	Amount         generic.Amount    `json:"amount"`
	SourcePocketID AccountID         `json:"sourcePocketId,omitempty"`
	TargetPocketID AccountID         `json:"targetPocketId,omitempty"`
	SourceGoalID   AccountID         `json:"sourceGoalId,omitempty"`
	TargetGoalID   AccountID         `json:"targetGoalId,omitempty"`
	Date           generic.TimePoint `json:"date"`
	Description    string            `json:"description,omitempty"`

	// CreatedAt only orders records for display; the ledger uses Date.
	CreatedAt time.Time `json:"createdAt"`
}

// CreditAccount returns the account the transaction adds money to, or "".
func (tx Transaction) CreditAccount() AccountID {
	switch tx.Kind {
	case KindIncome:
		return firstOf(tx.TargetGoalID, tx.TargetPocketID, tx.SourcePocketID)
	case KindTransfer:
		return firstOf(tx.TargetGoalID, tx.TargetPocketID)
	}
	return ""
}

// DebitAccount returns the account the transaction takes money from, or "".
func (tx Transaction) DebitAccount() AccountID {
	switch tx.Kind {
	case KindExpense, KindTransfer:
		return firstOf(tx.SourceGoalID, tx.SourcePocketID)
	}
	return ""
}

// Touches reports whether the transaction credits or debits the account.
func (tx Transaction) Touches(id AccountID) bool {
	return id != "" && (tx.CreditAccount() == id || tx.DebitAccount() == id)
}

func firstOf(ids ...AccountID) AccountID {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

// TransactionsFor returns the transactions touching the account, in input order.
func TransactionsFor(id AccountID, txs []Transaction) []Transaction {
	var out []Transaction
	for _, tx := range txs {
		if tx.Touches(id) {
			out = append(out, tx)
		}
	}
	return out
}

// =============================================================================
// POCKET - Named sub-account
// =============================================================================

type PocketKind string

const (
	PocketMain       PocketKind = "main"
	PocketSpending   PocketKind = "spending"
	PocketSaving     PocketKind = "saving"
	PocketInvestment PocketKind = "investment"
)

func (k PocketKind) IsValid() bool {
	switch k {
	case PocketMain, PocketSpending, PocketSaving, PocketInvestment:
		return true
	}
	return false
}

type Pocket struct {
	ID        AccountID  `json:"id"`
	Name      string     `json:"name"`
	Kind      PocketKind `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`
}

// =============================================================================
// GOAL - Savings or investment target
// =============================================================================

type GoalKind string

const (
	GoalSaving     GoalKind = "saving"
	GoalInvestment GoalKind = "investment"
)

type Goal struct {
	ID             AccountID      `json:"id"`
	Name           string         `json:"name"`
	TargetAmount   generic.Amount `json:"targetAmount"`
	DurationMonths int            `json:"duration"`
	Kind           GoalKind       `json:"type"`

	// AnnualReturnPercentage applies to investment goals only; 12 means 12%/year.
	AnnualReturnPercentage generic.Percent `json:"annualReturnPercentage"`

	// LastReturnCalculationDate is the accrual checkpoint: the last day whose
	// growth has been computed. Zero means "never", i.e. the creation day.
	LastReturnCalculationDate generic.TimePoint `json:"lastReturnCalculationDate"`

	CreatedAt time.Time `json:"createdAt"`
}

// IsInvestment reports whether the goal accrues simulated returns.
func (g Goal) IsInvestment() bool { return g.Kind == GoalInvestment }

// Checkpoint returns the last accrued day, defaulting to the creation day.
func (g Goal) Checkpoint() generic.TimePoint {
	if !g.LastReturnCalculationDate.IsZero() {
		return g.LastReturnCalculationDate
	}
	return generic.DayOf(g.CreatedAt)
}

// =============================================================================
// INVESTMENT ACTIVITY - One day of simulated growth
// =============================================================================

const DailyReturnLabel = "Daily return"

type ActivityEntry struct {
	ID     string            `json:"id"`
	GoalID AccountID         `json:"goalId"`
	Date   generic.TimePoint `json:"date"`
	Amount generic.Amount    `json:"amount"`
	Label  string            `json:"label"`
}

// ActivitiesUpTo returns entries dated on or before the given day, in input order.
func ActivitiesUpTo(day generic.TimePoint, entries []ActivityEntry) []ActivityEntry {
	var out []ActivityEntry
	for _, e := range entries {
		if e.Date.BeforeOrEqual(day) {
			out = append(out, e)
		}
	}
	return out
}
