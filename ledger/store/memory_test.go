package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
	"github.com/warp/pocket-ledger/ledger/store"
)

func sampleTx(id string) ledger.Transaction {
	return ledger.Transaction{
		ID:             id,
		Kind:           ledger.KindIncome,
		Amount:         generic.NewAmountFromInt(100),
		TargetPocketID: "main",
		Date:           generic.NewTimePoint(2025, time.March, 1),
	}
}

func TestMemory_Transactions(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.AppendTransaction(ctx, sampleTx("t1")))
	require.NoError(t, mem.AppendTransaction(ctx, sampleTx("t2")))
	assert.ErrorIs(t, mem.AppendTransaction(ctx, sampleTx("t1")), generic.ErrDuplicateID)

	txs, err := mem.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "t1", txs[0].ID)

	// Returned slices are copies.
	txs[0].ID = "mutated"
	again, _ := mem.Transactions(ctx)
	assert.Equal(t, "t1", again[0].ID)

	require.NoError(t, mem.DeleteTransaction(ctx, "t1"))
	assert.ErrorIs(t, mem.DeleteTransaction(ctx, "t1"), generic.ErrTransactionNotFound)
	txs, _ = mem.Transactions(ctx)
	assert.Len(t, txs, 1)
}

func TestMemory_PocketsUpsert(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SavePocket(ctx, ledger.Pocket{ID: "p", Name: "Old", Kind: ledger.PocketSaving}))
	require.NoError(t, mem.SavePocket(ctx, ledger.Pocket{ID: "p", Name: "New", Kind: ledger.PocketSaving}))

	pockets, err := mem.Pockets(ctx)
	require.NoError(t, err)
	require.Len(t, pockets, 1)
	assert.Equal(t, "New", pockets[0].Name)

	require.NoError(t, mem.DeletePocket(ctx, "p"))
	assert.ErrorIs(t, mem.DeletePocket(ctx, "p"), generic.ErrPocketNotFound)
}

func TestMemory_GoalDeleteCascades(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	g := ledger.Goal{ID: "g", Name: "G", Kind: ledger.GoalInvestment}
	require.NoError(t, mem.SaveGoal(ctx, g))
	require.NoError(t, mem.AppendActivities(ctx, "g", []ledger.ActivityEntry{{ID: "a1", GoalID: "g"}}))

	_, err := mem.Goal(ctx, "g")
	require.NoError(t, err)

	require.NoError(t, mem.DeleteGoal(ctx, "g"))
	_, err = mem.Goal(ctx, "g")
	assert.ErrorIs(t, err, generic.ErrGoalNotFound)

	acts, err := mem.Activities(ctx, "g")
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestTxMemory_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	mem := store.NewTxMemory()
	require.NoError(t, mem.SaveGoal(ctx, ledger.Goal{ID: "g", Name: "G"}))

	boom := errors.New("boom")
	err := mem.WithTx(ctx, func(s ledger.Store) error {
		require.NoError(t, s.AppendActivities(ctx, "g", []ledger.ActivityEntry{{ID: "a1", GoalID: "g"}}))
		require.NoError(t, s.SaveGoal(ctx, ledger.Goal{ID: "g", Name: "Renamed"}))
		require.NoError(t, s.AppendTransaction(ctx, sampleTx("t1")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acts, _ := mem.Activities(ctx, "g")
	assert.Empty(t, acts)
	g, _ := mem.Goal(ctx, "g")
	assert.Equal(t, "G", g.Name)
	txs, _ := mem.Transactions(ctx)
	assert.Empty(t, txs)
}

func TestTxMemory_Commit(t *testing.T) {
	ctx := context.Background()
	mem := store.NewTxMemory()

	err := mem.WithTx(ctx, func(s ledger.Store) error {
		return s.AppendActivities(ctx, "g", []ledger.ActivityEntry{{ID: "a1", GoalID: "g"}})
	})
	require.NoError(t, err)

	acts, _ := mem.Activities(ctx, "g")
	assert.Len(t, acts, 1)
}
