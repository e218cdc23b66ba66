// Package store provides in-process ledger.Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex
	collections
}

// collections holds the data and the lock-free operations on it. Memory
// guards it with mu; the transactional view runs with mu already held.
type collections struct {
	transactions []ledger.Transaction
	pockets      []ledger.Pocket
	goals        map[ledger.AccountID]ledger.Goal
	activities   map[ledger.AccountID][]ledger.ActivityEntry
}

func NewMemory() *Memory {
	return &Memory{collections: newCollections()}
}

func newCollections() collections {
	return collections{
		goals:      make(map[ledger.AccountID]ledger.Goal),
		activities: make(map[ledger.AccountID][]ledger.ActivityEntry),
	}
}

func (m *Memory) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collections.Transactions(ctx)
}

func (m *Memory) AppendTransaction(ctx context.Context, tx ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collections.AppendTransaction(ctx, tx)
}

func (m *Memory) DeleteTransaction(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collections.DeleteTransaction(ctx, id)
}

func (m *Memory) Pockets(ctx context.Context) ([]ledger.Pocket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collections.Pockets(ctx)
}

func (m *Memory) SavePocket(ctx context.Context, p ledger.Pocket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collections.SavePocket(ctx, p)
}

func (m *Memory) DeletePocket(ctx context.Context, id ledger.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collections.DeletePocket(ctx, id)
}

func (m *Memory) Goals(ctx context.Context) ([]ledger.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collections.Goals(ctx)
}

func (m *Memory) Goal(ctx context.Context, id ledger.AccountID) (ledger.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collections.Goal(ctx, id)
}

func (m *Memory) SaveGoal(ctx context.Context, g ledger.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collections.SaveGoal(ctx, g)
}

func (m *Memory) DeleteGoal(ctx context.Context, id ledger.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collections.DeleteGoal(ctx, id)
}

func (m *Memory) Activities(ctx context.Context, goalID ledger.AccountID) ([]ledger.ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collections.Activities(ctx, goalID)
}

func (m *Memory) AppendActivities(ctx context.Context, goalID ledger.AccountID, entries []ledger.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collections.AppendActivities(ctx, goalID, entries)
}

// =============================================================================
// LOCK-FREE OPERATIONS
// =============================================================================

func (c *collections) Transactions(_ context.Context) ([]ledger.Transaction, error) {
	return append([]ledger.Transaction(nil), c.transactions...), nil
}

func (c *collections) AppendTransaction(_ context.Context, tx ledger.Transaction) error {
	for _, existing := range c.transactions {
		if existing.ID == tx.ID {
			return fmt.Errorf("%w: transaction %s", generic.ErrDuplicateID, tx.ID)
		}
	}
	c.transactions = append(c.transactions, tx)
	return nil
}

func (c *collections) DeleteTransaction(_ context.Context, id string) error {
	for i, tx := range c.transactions {
		if tx.ID == id {
			c.transactions = append(c.transactions[:i:i], c.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", generic.ErrTransactionNotFound, id)
}

func (c *collections) Pockets(_ context.Context) ([]ledger.Pocket, error) {
	return append([]ledger.Pocket(nil), c.pockets...), nil
}

func (c *collections) SavePocket(_ context.Context, p ledger.Pocket) error {
	for i, existing := range c.pockets {
		if existing.ID == p.ID {
			c.pockets[i] = p
			return nil
		}
	}
	c.pockets = append(c.pockets, p)
	return nil
}

func (c *collections) DeletePocket(_ context.Context, id ledger.AccountID) error {
	for i, p := range c.pockets {
		if p.ID == id {
			c.pockets = append(c.pockets[:i:i], c.pockets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", generic.ErrPocketNotFound, id)
}

// Goals returns goals ordered by creation time, then id.
func (c *collections) Goals(_ context.Context) ([]ledger.Goal, error) {
	out := make([]ledger.Goal, 0, len(c.goals))
	for _, g := range c.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *collections) Goal(_ context.Context, id ledger.AccountID) (ledger.Goal, error) {
	g, ok := c.goals[id]
	if !ok {
		return ledger.Goal{}, fmt.Errorf("%w: %s", generic.ErrGoalNotFound, id)
	}
	return g, nil
}

func (c *collections) SaveGoal(_ context.Context, g ledger.Goal) error {
	c.goals[g.ID] = g
	return nil
}

func (c *collections) DeleteGoal(_ context.Context, id ledger.AccountID) error {
	if _, ok := c.goals[id]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrGoalNotFound, id)
	}
	delete(c.goals, id)
	delete(c.activities, id)
	return nil
}

func (c *collections) Activities(_ context.Context, goalID ledger.AccountID) ([]ledger.ActivityEntry, error) {
	return append([]ledger.ActivityEntry(nil), c.activities[goalID]...), nil
}

func (c *collections) AppendActivities(_ context.Context, goalID ledger.AccountID, entries []ledger.ActivityEntry) error {
	c.activities[goalID] = append(c.activities[goalID], entries...)
	return nil
}

func (c *collections) clone() collections {
	out := newCollections()
	out.transactions = append([]ledger.Transaction(nil), c.transactions...)
	out.pockets = append([]ledger.Pocket(nil), c.pockets...)
	for k, v := range c.goals {
		out.goals[k] = v
	}
	for k, v := range c.activities {
		out.activities[k] = append([]ledger.ActivityEntry(nil), v...)
	}
	return out
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.collections.clone()

	if err := fn(&tm.collections); err != nil {
		tm.collections = snapshot
		return err
	}
	return nil
}

var (
	_ ledger.TxStore = (*TxMemory)(nil)
	_ ledger.Store   = (*collections)(nil)
)
