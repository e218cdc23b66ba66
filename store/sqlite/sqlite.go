/*
Package sqlite provides a SQLite-backed implementation of ledger.TxStore.

PURPOSE:
  Persists the four ledger collections as JSON documents in a single
  key-value table. Every read decodes the whole collection and every write
  replaces it; the collections are small and balances are always recomputed
  from them anyway.

KEY TABLE:
  collections(name TEXT PRIMARY KEY, payload TEXT, updated_at TEXT)

    name                  payload
    transactions          [Transaction, ...]
    pockets               [Pocket, ...]
    goals                 [Goal, ...]
    investmentActivities  {goalId: [ActivityEntry, ...]}

  A missing row reads as an empty collection.

MIGRATION:
  Versioned SQL files under migrations/ are embedded in the binary and
  applied with golang-migrate on New().

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WithTx holds the write lock for the
  whole sql.Tx, so read-modify-write cycles never interleave.

USAGE:
  store, err := sqlite.New("./data/ledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := ledger.NewService(store, sim, logger)

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the embedded migrations. The migrate instance is not
// closed because that would close s.db with it.
func (s *Store) migrate() error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Reset deletes every collection.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM collections`); err != nil {
		return fmt.Errorf("%w: reset: %v", generic.ErrStoreFailed, err)
	}
	return nil
}

// =============================================================================
// COLLECTION DOCUMENTS
// =============================================================================

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// load decodes the named collection into dst. A missing row leaves dst as is.
func load(ctx context.Context, q querier, name string, dst any) error {
	var payload string
	err := q.QueryRowContext(ctx, `SELECT payload FROM collections WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", generic.ErrStoreFailed, name, err)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", generic.ErrStoreFailed, name, err)
	}
	return nil
}

func save(ctx context.Context, q querier, name string, src any) error {
	payload, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", generic.ErrStoreFailed, name, err)
	}

	query := `
		INSERT INTO collections (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := q.ExecContext(ctx, query, name, string(payload), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("%w: write %s: %v", generic.ErrStoreFailed, name, err)
	}
	return nil
}

// collections implements ledger.Store over any querier. The Store methods
// wrap it with the mutex; WithTx hands it out bound to the sql.Tx.
type collections struct {
	q querier
}

func (c collections) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := load(ctx, c.q, ledger.CollectionTransactions, &txs)
	return txs, err
}

func (c collections) AppendTransaction(ctx context.Context, tx ledger.Transaction) error {
	txs, err := c.Transactions(ctx)
	if err != nil {
		return err
	}
	for _, existing := range txs {
		if existing.ID == tx.ID {
			return fmt.Errorf("%w: transaction %s", generic.ErrDuplicateID, tx.ID)
		}
	}
	return save(ctx, c.q, ledger.CollectionTransactions, append(txs, tx))
}

func (c collections) DeleteTransaction(ctx context.Context, id string) error {
	txs, err := c.Transactions(ctx)
	if err != nil {
		return err
	}
	for i, tx := range txs {
		if tx.ID == id {
			return save(ctx, c.q, ledger.CollectionTransactions, append(txs[:i:i], txs[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s", generic.ErrTransactionNotFound, id)
}

func (c collections) Pockets(ctx context.Context) ([]ledger.Pocket, error) {
	var pockets []ledger.Pocket
	err := load(ctx, c.q, ledger.CollectionPockets, &pockets)
	return pockets, err
}

func (c collections) SavePocket(ctx context.Context, p ledger.Pocket) error {
	pockets, err := c.Pockets(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range pockets {
		if pockets[i].ID == p.ID {
			pockets[i] = p
			replaced = true
		}
	}
	if !replaced {
		pockets = append(pockets, p)
	}
	return save(ctx, c.q, ledger.CollectionPockets, pockets)
}

func (c collections) DeletePocket(ctx context.Context, id ledger.AccountID) error {
	pockets, err := c.Pockets(ctx)
	if err != nil {
		return err
	}
	for i, p := range pockets {
		if p.ID == id {
			return save(ctx, c.q, ledger.CollectionPockets, append(pockets[:i:i], pockets[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s", generic.ErrPocketNotFound, id)
}

// Goals returns goals ordered by creation time, then id.
func (c collections) Goals(ctx context.Context) ([]ledger.Goal, error) {
	var goals []ledger.Goal
	if err := load(ctx, c.q, ledger.CollectionGoals, &goals); err != nil {
		return nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID < goals[j].ID
	})
	return goals, nil
}

func (c collections) Goal(ctx context.Context, id ledger.AccountID) (ledger.Goal, error) {
	goals, err := c.Goals(ctx)
	if err != nil {
		return ledger.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
	}
	return ledger.Goal{}, fmt.Errorf("%w: %s", generic.ErrGoalNotFound, id)
}

func (c collections) SaveGoal(ctx context.Context, g ledger.Goal) error {
	goals, err := c.Goals(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range goals {
		if goals[i].ID == g.ID {
			goals[i] = g
			replaced = true
		}
	}
	if !replaced {
		goals = append(goals, g)
	}
	return save(ctx, c.q, ledger.CollectionGoals, goals)
}

func (c collections) DeleteGoal(ctx context.Context, id ledger.AccountID) error {
	goals, err := c.Goals(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, g := range goals {
		if g.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", generic.ErrGoalNotFound, id)
	}
	if err := save(ctx, c.q, ledger.CollectionGoals, append(goals[:idx:idx], goals[idx+1:]...)); err != nil {
		return err
	}

	all, err := c.allActivities(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[id]; !ok {
		return nil
	}
	delete(all, id)
	return save(ctx, c.q, ledger.CollectionActivities, all)
}

func (c collections) allActivities(ctx context.Context) (map[ledger.AccountID][]ledger.ActivityEntry, error) {
	all := make(map[ledger.AccountID][]ledger.ActivityEntry)
	err := load(ctx, c.q, ledger.CollectionActivities, &all)
	return all, err
}

func (c collections) Activities(ctx context.Context, goalID ledger.AccountID) ([]ledger.ActivityEntry, error) {
	all, err := c.allActivities(ctx)
	if err != nil {
		return nil, err
	}
	return all[goalID], nil
}

func (c collections) AppendActivities(ctx context.Context, goalID ledger.AccountID, entries []ledger.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	all, err := c.allActivities(ctx)
	if err != nil {
		return err
	}
	all[goalID] = append(all[goalID], entries...)
	return save(ctx, c.q, ledger.CollectionActivities, all)
}

// =============================================================================
// LEDGER STORE (ledger.Store interface)
// =============================================================================

func (s *Store) view() collections { return collections{q: s.db} }

func (s *Store) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().Transactions(ctx)
}

func (s *Store) AppendTransaction(ctx context.Context, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().AppendTransaction(ctx, tx)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().DeleteTransaction(ctx, id)
}

func (s *Store) Pockets(ctx context.Context) ([]ledger.Pocket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().Pockets(ctx)
}

func (s *Store) SavePocket(ctx context.Context, p ledger.Pocket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().SavePocket(ctx, p)
}

func (s *Store) DeletePocket(ctx context.Context, id ledger.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().DeletePocket(ctx, id)
}

func (s *Store) Goals(ctx context.Context) ([]ledger.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().Goals(ctx)
}

func (s *Store) Goal(ctx context.Context, id ledger.AccountID) (ledger.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().Goal(ctx, id)
}

func (s *Store) SaveGoal(ctx context.Context, g ledger.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().SaveGoal(ctx, g)
}

// DeleteGoal removes the goal and its activity log in one sql.Tx.
func (s *Store) DeleteGoal(ctx context.Context, id ledger.AccountID) error {
	return s.WithTx(ctx, func(store ledger.Store) error {
		return store.DeleteGoal(ctx, id)
	})
}

func (s *Store) Activities(ctx context.Context, goalID ledger.AccountID) ([]ledger.ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view().Activities(ctx, goalID)
}

func (s *Store) AppendActivities(ctx context.Context, goalID ledger.AccountID, entries []ledger.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view().AppendActivities(ctx, goalID, entries)
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(collections{q: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// =============================================================================
// INSPECTION
// =============================================================================

// CollectionNames lists the stored collections, sorted.
func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: list collections: %v", generic.ErrStoreFailed, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var _ ledger.TxStore = (*Store)(nil)
