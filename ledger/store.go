/*
store.go - Persistence interfaces for the ledger collections

PURPOSE:
  The engine functions are pure; these interfaces are what the Service uses
  to load and save the collections around them. Each collection is one
  logical JSON document in a key-value store:

    transactions          []Transaction
    pockets               []Pocket
    goals                 []Goal
    investmentActivities  map[goalId][]ActivityEntry

RECORD MODEL:
  Transactions are mutable records (append and delete); balances are always
  recomputed from scratch. Activity entries are append-only and disappear
  only when their goal is deleted.

ATOMICITY:
  TxStore.WithTx runs fn against a view whose writes commit together or not
  at all. An accrual run writes new entries and the goal checkpoint through
  one WithTx call.

IMPLEMENTATIONS:
  - ledger/store/memory.go: in-memory, for tests and development
  - store/sqlite/sqlite.go: SQLite collections table
*/
package ledger

import "context"

// Collection names shared by every key-value backed implementation.
const (
	CollectionTransactions = "transactions"
	CollectionPockets      = "pockets"
	CollectionGoals        = "goals"
	CollectionActivities   = "investmentActivities"
)

type TransactionStore interface {
	// Transactions returns every transaction in insertion order.
	Transactions(ctx context.Context) ([]Transaction, error)

	// AppendTransaction fails with ErrDuplicateID if the id exists.
	AppendTransaction(ctx context.Context, tx Transaction) error

	// DeleteTransaction fails with ErrTransactionNotFound for an unknown id.
	DeleteTransaction(ctx context.Context, id string) error
}

type PocketStore interface {
	Pockets(ctx context.Context) ([]Pocket, error)

	// SavePocket inserts or replaces by id.
	SavePocket(ctx context.Context, p Pocket) error

	// DeletePocket fails with ErrPocketNotFound for an unknown id.
	DeletePocket(ctx context.Context, id AccountID) error
}

type GoalStore interface {
	Goals(ctx context.Context) ([]Goal, error)

	// Goal fails with ErrGoalNotFound for an unknown id.
	Goal(ctx context.Context, id AccountID) (Goal, error)

	// SaveGoal inserts or replaces by id.
	SaveGoal(ctx context.Context, g Goal) error

	// DeleteGoal removes the goal and all of its activity entries.
	DeleteGoal(ctx context.Context, id AccountID) error
}

type ActivityStore interface {
	// Activities returns the goal's entries in append order.
	Activities(ctx context.Context, goalID AccountID) ([]ActivityEntry, error)

	// AppendActivities adds entries to the goal's log. Append-only.
	AppendActivities(ctx context.Context, goalID AccountID, entries []ActivityEntry) error
}

// Store bundles the four collections.
type Store interface {
	TransactionStore
	PocketStore
	GoalStore
	ActivityStore
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, every write made through the view is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
