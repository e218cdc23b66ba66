/*
accrual.go - Daily Accrual Simulator

PURPOSE:
  Simulates investment returns for investment goals. Each run resumes from
  the goal's checkpoint (LastReturnCalculationDate), computes one day of
  growth per elapsed calendar day up to today, and records every positive
  day as an ActivityEntry.

GROWTH MODEL:
  SimpleDailyRate: dailyRate = annual% / 100 / 365, a simple daily rate
  rather than (1+r)^(1/365). Growth for a day is

    round(balance × dailyRate)

  rounded to whole currency units, half away from zero.

ALGORITHM:
  1. No growth model (saving goal, or rate <= 0): no-op.
  2. checkpoint = LastReturnCalculationDate, or the creation day.
  3. State at checkpoint = replay(all goal transactions,
                                  activity entries dated <= checkpoint).
  4. For D in (checkpoint, today]:
       growth = model(principal + accrued)
       growth > 0: new entry on D, accrued += growth
       checkpoint = D, even when growth is 0
  5. Return the advanced goal, the new entries and the total added.

IDEMPOTENCY:
  The checkpoint moves past every processed day, so a second run on the same
  day has an empty range. A gap of N days catches up exactly N days.

CATCH-UP CAP:
  MaxCatchUpDays bounds one run. Leftover days are processed by later runs
  and the checkpoint never skips an unprocessed day, so capped runs add up
  to the same log as a single uncapped run.

CLOCK SKEW:
  A checkpoint after today yields an empty range. It is logged and left as is.

SEE ALSO:
  - reconstruct.go: GoalState replay
  - service.go: persists entries and checkpoint atomically
*/
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/pocket-ledger/generic"
)

// DefaultMaxCatchUpDays bounds a single accrual run to roughly ten years.
const DefaultMaxCatchUpDays = 3660

var daysPerYear = decimal.NewFromInt(365)

// =============================================================================
// GROWTH MODEL - How much a balance grows in one day
// =============================================================================

// GrowthModel returns one day of growth for a balance.
type GrowthModel interface {
	DailyGrowth(balance generic.Amount) generic.Amount
}

// SimpleDailyRate spreads an annual percentage evenly over 365 days.
type SimpleDailyRate struct {
	Annual generic.Percent
}

func (r SimpleDailyRate) DailyRate() decimal.Decimal {
	return r.Annual.Fraction().Div(daysPerYear)
}

func (r SimpleDailyRate) DailyGrowth(balance generic.Amount) generic.Amount {
	return balance.Mul(r.DailyRate()).RoundUnits()
}

// GrowthModelFor returns the goal's growth model, or nil when the goal does
// not accrue (saving goal, or a rate that is not positive).
func GrowthModelFor(goal Goal) GrowthModel {
	if !goal.IsInvestment() || !goal.AnnualReturnPercentage.IsPositive() {
		return nil
	}
	return SimpleDailyRate{Annual: goal.AnnualReturnPercentage}
}

// =============================================================================
// SIMULATOR
// =============================================================================

type Simulator struct {
	Clock          generic.Clock
	MaxCatchUpDays int // <= 0 means DefaultMaxCatchUpDays
	Logger         *zap.Logger
	NewID          func() string
}

// NewSimulator creates a simulator reading "today" from clock.
// A nil logger is replaced by a no-op logger.
func NewSimulator(clock generic.Clock, logger *zap.Logger) *Simulator {
	if clock == nil {
		clock = generic.Today
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		Clock:          clock,
		MaxCatchUpDays: DefaultMaxCatchUpDays,
		Logger:         logger,
		NewID:          uuid.NewString,
	}
}

// AccrualResult is the outcome of one run. Goal carries the advanced checkpoint.
type AccrualResult struct {
	Goal          Goal
	Entries       []ActivityEntry
	TotalAdded    generic.Amount
	DaysProcessed int
	DaysRemaining int // days left for later runs because of the cap
}

// CheckpointAdvanced reports whether the run moved the goal's checkpoint.
func (r AccrualResult) CheckpointAdvanced(before Goal) bool {
	return !r.Goal.LastReturnCalculationDate.Equal(before.LastReturnCalculationDate)
}

// RunDailyAccrual advances the goal's checkpoint to today. goalTxs may hold
// unrelated transactions; only those touching the goal are replayed. Inputs
// are not modified.
func (s *Simulator) RunDailyAccrual(goal Goal, goalTxs []Transaction, activities []ActivityEntry) AccrualResult {
	result := AccrualResult{Goal: goal, TotalAdded: generic.ZeroAmount()}

	model := GrowthModelFor(goal)
	if model == nil {
		return result
	}

	log := s.logger().With(zap.String("goal_id", string(goal.ID)))
	checkpoint := goal.Checkpoint()
	today := s.Clock()

	pending := generic.Period{Start: checkpoint.AddDays(1), End: today}
	if pending.IsEmpty() {
		if checkpoint.After(today) {
			log.Debug("accrual checkpoint is after today, nothing to do",
				zap.Stringer("checkpoint", checkpoint), zap.Stringer("today", today))
		}
		return result
	}

	limit := s.MaxCatchUpDays
	if limit <= 0 {
		limit = DefaultMaxCatchUpDays
	}
	batch := pending.Truncate(limit)
	result.DaysRemaining = pending.Len() - batch.Len()

	state := ReconstructGoalState(goal.ID, goalTxs, ActivitiesUpTo(checkpoint, activitiesOf(goal.ID, activities)))

	for _, day := range batch.Days() {
		growth := model.DailyGrowth(state.Balance())
		if growth.IsPositive() {
			result.Entries = append(result.Entries, ActivityEntry{
				ID:     s.newID(),
				GoalID: goal.ID,
				Date:   day,
				Amount: growth,
				Label:  DailyReturnLabel,
			})
			state.AccruedReturn = state.AccruedReturn.Add(growth)
			result.TotalAdded = result.TotalAdded.Add(growth)
		}
		result.Goal.LastReturnCalculationDate = day
		result.DaysProcessed++
	}

	if result.DaysRemaining > 0 {
		log.Info("accrual catch-up capped",
			zap.Int("days_processed", result.DaysProcessed),
			zap.Int("days_remaining", result.DaysRemaining))
	}
	return result
}

func (s *Simulator) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Simulator) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

func activitiesOf(goalID AccountID, entries []ActivityEntry) []ActivityEntry {
	var out []ActivityEntry
	for _, e := range entries {
		if e.GoalID == goalID {
			out = append(out, e)
		}
	}
	return out
}

// RunDailyAccrual is the in-place form: it appends new entries to *activities,
// advances goal's checkpoint and returns the growth added. today pins the
// simulated current day.
func RunDailyAccrual(goal *Goal, goalTxs []Transaction, activities *[]ActivityEntry, today generic.TimePoint) generic.Amount {
	sim := NewSimulator(generic.FixedClock(today), nil)
	result := sim.RunDailyAccrual(*goal, goalTxs, *activities)
	*goal = result.Goal
	*activities = append(*activities, result.Entries...)
	return result.TotalAdded
}
