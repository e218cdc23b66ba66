/*
service.go - Store-backed orchestration of the engine

PURPOSE:
  The engine functions never touch storage. Service is the caller that
  loads collections, runs them through the engine and saves what changed.
  It is what the HTTP API and the accrual sweep talk to.

VIEW-LOAD FLOW:
  CurrentBalance(goal):
    1. RunDailyAccrual  - catch the goal up to today (idempotent)
    2. CurrentBalance   - read the facade over the updated log

  Step 1 runs inside Store.WithTx: the goal is re-read inside the
  transaction, so two overlapping calls serialize and the second sees the
  advanced checkpoint and adds nothing.

VALIDATION:
  New transactions pass ValidateTransaction and must reference existing
  pockets or goals. The engine itself never re-validates.

SEE ALSO:
  - store.go: the interfaces used here
  - api/handlers.go: HTTP surface
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/pocket-ledger/generic"
)

type Service struct {
	Store     TxStore
	Simulator *Simulator
	Logger    *zap.Logger
	NewID     func() string
	Now       func() time.Time
}

// NewService wires a service around store. The simulator's clock is the
// service's notion of "today".
func NewService(store TxStore, sim *Simulator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sim == nil {
		sim = NewSimulator(generic.Today, logger)
	}
	return &Service{
		Store:     store,
		Simulator: sim,
		Logger:    logger,
		NewID:     uuid.NewString,
		Now:       time.Now,
	}
}

func (s *Service) today() generic.TimePoint {
	return s.Simulator.Clock()
}

// =============================================================================
// BALANCES
// =============================================================================

// ProjectBalances projects every pocket and goal from the stored transactions.
func (s *Service) ProjectBalances(ctx context.Context) (Balances, error) {
	txs, err := s.Store.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	return ProjectBalances(txs), nil
}

// ReconstructGoalState replays the goal's current log without accruing.
func (s *Service) ReconstructGoalState(ctx context.Context, goalID AccountID) (GoalState, error) {
	if _, err := s.Store.Goal(ctx, goalID); err != nil {
		return GoalState{}, err
	}
	txs, acts, err := s.loadGoalLog(ctx, s.Store, goalID)
	if err != nil {
		return GoalState{}, err
	}
	return ReconstructGoalState(goalID, txs, acts), nil
}

// RunDailyAccrual catches one goal up to today and persists the new entries
// and checkpoint atomically.
func (s *Service) RunDailyAccrual(ctx context.Context, goalID AccountID) (AccrualResult, error) {
	var result AccrualResult
	err := s.Store.WithTx(ctx, func(store Store) error {
		goal, err := store.Goal(ctx, goalID)
		if err != nil {
			return err
		}
		txs, acts, err := s.loadGoalLog(ctx, store, goalID)
		if err != nil {
			return err
		}

		result = s.Simulator.RunDailyAccrual(goal, txs, acts)

		if len(result.Entries) > 0 {
			if err := store.AppendActivities(ctx, goalID, result.Entries); err != nil {
				return fmt.Errorf("append activities for goal %s: %w", goalID, err)
			}
		}
		if result.CheckpointAdvanced(goal) {
			if err := store.SaveGoal(ctx, result.Goal); err != nil {
				return fmt.Errorf("save checkpoint for goal %s: %w", goalID, err)
			}
		}
		return nil
	})
	if err != nil {
		return AccrualResult{}, err
	}

	if result.DaysProcessed > 0 {
		s.Logger.Debug("accrual run",
			zap.String("goal_id", string(goalID)),
			zap.Int("days", result.DaysProcessed),
			zap.Stringer("total_added", result.TotalAdded),
			zap.Stringer("checkpoint", result.Goal.LastReturnCalculationDate))
	}
	return result, nil
}

// CurrentBalance accrues the goal to today, then reads its balance.
func (s *Service) CurrentBalance(ctx context.Context, goalID AccountID) (generic.Amount, error) {
	balance, _, err := s.balanceAfterAccrual(ctx, goalID)
	return balance, err
}

// GoalProgress accrues the goal to today and relates its balance to the target.
func (s *Service) GoalProgress(ctx context.Context, goalID AccountID) (GoalProgress, error) {
	balance, goal, err := s.balanceAfterAccrual(ctx, goalID)
	if err != nil {
		return GoalProgress{}, err
	}
	return Progress(goal, balance, s.today()), nil
}

func (s *Service) balanceAfterAccrual(ctx context.Context, goalID AccountID) (generic.Amount, Goal, error) {
	result, err := s.RunDailyAccrual(ctx, goalID)
	if err != nil {
		return generic.Amount{}, Goal{}, err
	}
	txs, acts, err := s.loadGoalLog(ctx, s.Store, goalID)
	if err != nil {
		return generic.Amount{}, Goal{}, err
	}
	return CurrentBalance(result.Goal, txs, acts), result.Goal, nil
}

// SweepResult summarizes an AccrueAll run.
type SweepResult struct {
	Goals      int
	TotalAdded generic.Amount
}

// AccrueAll runs accrual for every investment goal. A failing goal does not
// stop the others; all failures are joined into the returned error.
func (s *Service) AccrueAll(ctx context.Context) (SweepResult, error) {
	sweep := SweepResult{TotalAdded: generic.ZeroAmount()}
	goals, err := s.Store.Goals(ctx)
	if err != nil {
		return sweep, err
	}

	var errs []error
	for _, g := range goals {
		if GrowthModelFor(g) == nil {
			continue
		}
		result, err := s.RunDailyAccrual(ctx, g.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("goal %s: %w", g.ID, err))
			continue
		}
		sweep.Goals++
		sweep.TotalAdded = sweep.TotalAdded.Add(result.TotalAdded)
	}
	return sweep, errors.Join(errs...)
}

func (s *Service) loadGoalLog(ctx context.Context, store Store, goalID AccountID) ([]Transaction, []ActivityEntry, error) {
	txs, err := store.Transactions(ctx)
	if err != nil {
		return nil, nil, err
	}
	acts, err := store.Activities(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}
	return TransactionsFor(goalID, txs), acts, nil
}

// =============================================================================
// GOALS
// =============================================================================

func (s *Service) Goals(ctx context.Context) ([]Goal, error) {
	return s.Store.Goals(ctx)
}

func (s *Service) Goal(ctx context.Context, id AccountID) (Goal, error) {
	return s.Store.Goal(ctx, id)
}

func (s *Service) Activities(ctx context.Context, goalID AccountID) ([]ActivityEntry, error) {
	if _, err := s.Store.Goal(ctx, goalID); err != nil {
		return nil, err
	}
	return s.Store.Activities(ctx, goalID)
}

// CreateGoal stores a new goal, filling in id and creation time when missing.
func (s *Service) CreateGoal(ctx context.Context, g Goal) (Goal, error) {
	if g.ID == "" {
		g.ID = AccountID(s.NewID())
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.Now()
	}
	if err := ValidateGoal(g); err != nil {
		return Goal{}, err
	}
	if err := s.ensureUnusedID(ctx, g.ID); err != nil {
		return Goal{}, err
	}
	if err := s.Store.SaveGoal(ctx, g); err != nil {
		return Goal{}, err
	}
	s.Logger.Info("goal created", zap.String("goal_id", string(g.ID)), zap.String("type", string(g.Kind)))
	return g, nil
}

// DeleteGoal removes the goal and its activity log. Transactions that
// reference it stay; the projector keeps a balance for the dangling id.
func (s *Service) DeleteGoal(ctx context.Context, id AccountID) error {
	if err := s.Store.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("goal deleted", zap.String("goal_id", string(id)))
	return nil
}

// ValidateGoal checks the fields a goal needs before it is stored.
func ValidateGoal(g Goal) error {
	switch {
	case g.Name == "":
		return fmt.Errorf("%w: name is required", generic.ErrInvalidGoal)
	case g.Kind != GoalSaving && g.Kind != GoalInvestment:
		return fmt.Errorf("%w: type %q is not saving or investment", generic.ErrInvalidGoal, g.Kind)
	case g.TargetAmount.IsNegative():
		return fmt.Errorf("%w: targetAmount must not be negative", generic.ErrInvalidGoal)
	case g.DurationMonths < 0:
		return fmt.Errorf("%w: duration must not be negative", generic.ErrInvalidGoal)
	case g.AnnualReturnPercentage.IsNegative():
		return fmt.Errorf("%w: annualReturnPercentage must not be negative", generic.ErrInvalidGoal)
	}
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Service) Transactions(ctx context.Context) ([]Transaction, error) {
	return s.Store.Transactions(ctx)
}

// AddTransaction validates and appends a transaction. Every referenced
// pocket or goal must exist.
func (s *Service) AddTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		tx.ID = s.NewID()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.Now()
	}
	if err := ValidateTransaction(tx); err != nil {
		return Transaction{}, err
	}

	known, err := s.knownAccounts(ctx)
	if err != nil {
		return Transaction{}, err
	}
	refs := []struct {
		field string
		id    AccountID
	}{
		{"sourcePocketId", tx.SourcePocketID},
		{"targetPocketId", tx.TargetPocketID},
		{"sourceGoalId", tx.SourceGoalID},
		{"targetGoalId", tx.TargetGoalID},
	}
	for _, ref := range refs {
		if ref.id != "" && !known[ref.id] {
			return Transaction{}, &TransactionError{TransactionID: tx.ID, Field: ref.field, Reason: fmt.Sprintf("%q does not exist", ref.id)}
		}
	}

	if err := s.Store.AppendTransaction(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.Store.DeleteTransaction(ctx, id)
}

func (s *Service) knownAccounts(ctx context.Context) (map[AccountID]bool, error) {
	known := make(map[AccountID]bool)
	pockets, err := s.Store.Pockets(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pockets {
		known[p.ID] = true
	}
	goals, err := s.Store.Goals(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		known[g.ID] = true
	}
	return known, nil
}

func (s *Service) ensureUnusedID(ctx context.Context, id AccountID) error {
	known, err := s.knownAccounts(ctx)
	if err != nil {
		return err
	}
	if known[id] {
		return fmt.Errorf("%w: account %s", generic.ErrDuplicateID, id)
	}
	return nil
}

// =============================================================================
// POCKETS
// =============================================================================

func (s *Service) Pockets(ctx context.Context) ([]Pocket, error) {
	return s.Store.Pockets(ctx)
}

// CreatePocket stores a new pocket. Only one main pocket may exist.
func (s *Service) CreatePocket(ctx context.Context, p Pocket) (Pocket, error) {
	if p.ID == "" {
		p.ID = AccountID(s.NewID())
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.Now()
	}
	if p.Name == "" {
		return Pocket{}, fmt.Errorf("%w: name is required", generic.ErrInvalidPocket)
	}
	if !p.Kind.IsValid() {
		return Pocket{}, fmt.Errorf("%w: type %q is not main, spending, saving or investment", generic.ErrInvalidPocket, p.Kind)
	}
	if err := s.ensureUnusedID(ctx, p.ID); err != nil {
		return Pocket{}, err
	}
	if p.Kind == PocketMain {
		pockets, err := s.Store.Pockets(ctx)
		if err != nil {
			return Pocket{}, err
		}
		for _, existing := range pockets {
			if existing.Kind == PocketMain {
				return Pocket{}, fmt.Errorf("%w: main pocket %s already exists", generic.ErrMainPocketRequired, existing.ID)
			}
		}
	}
	if err := s.Store.SavePocket(ctx, p); err != nil {
		return Pocket{}, err
	}
	return p, nil
}

// DeletePocket removes a pocket. The main pocket is never deletable.
func (s *Service) DeletePocket(ctx context.Context, id AccountID) error {
	pockets, err := s.Store.Pockets(ctx)
	if err != nil {
		return err
	}
	for _, p := range pockets {
		if p.ID == id && p.Kind == PocketMain {
			return fmt.Errorf("%w: main pocket %s cannot be deleted", generic.ErrMainPocketRequired, id)
		}
	}
	return s.Store.DeletePocket(ctx, id)
}

// EnsureMainPocket creates the main pocket when none exists and returns it.
func (s *Service) EnsureMainPocket(ctx context.Context, name string) (Pocket, error) {
	pockets, err := s.Store.Pockets(ctx)
	if err != nil {
		return Pocket{}, err
	}
	for _, p := range pockets {
		if p.Kind == PocketMain {
			return p, nil
		}
	}
	return s.CreatePocket(ctx, Pocket{Name: name, Kind: PocketMain})
}
