/*
reconstruct.go - Investment State Reconstructor

PURPOSE:
  Splits an investment goal's balance into principal (money put in) and
  accrued return (simulated growth) by replaying the goal's timeline.

TIMELINE EVENTS:
  Deposit      income credited to the goal, or a transfer landing on it
  Withdrawal   a transfer or expense taking money out of the goal
  DailyReturn  one per activity entry of the goal

ORDERING:
  Events are sorted by day. Events on the same day are ordered
  deposit < withdrawal < daily return, then by input order. A deposit and a
  withdrawal booked on the same day therefore never eat into accrued return
  when the deposit alone covers the withdrawal.

REPLAY:
  Deposit      principal += amount
  DailyReturn  accrued   += amount
  Withdrawal   w: principal -= min(w, principal)
                  accrued   -= w - min(w, principal), floored at 0

  Neither component ever goes negative. Withdrawing more than
  principal + accrued is not rejected here; the surplus simply vanishes.

SEE ALSO:
  - accrual.go: reconstructs the state at the checkpoint before accruing
  - facade.go: principal + accrued is the displayed goal balance
*/
package ledger

import (
	"sort"

	"github.com/warp/pocket-ledger/generic"
)

// =============================================================================
// TIMELINE - Goal events in replay order
// =============================================================================

// EventKind is ordered: same-day events replay in ascending EventKind.
type EventKind int

const (
	EventDeposit EventKind = iota
	EventWithdrawal
	EventDailyReturn
)

func (k EventKind) String() string {
	switch k {
	case EventDeposit:
		return "deposit"
	case EventWithdrawal:
		return "withdrawal"
	case EventDailyReturn:
		return "daily_return"
	default:
		return "unknown"
	}
}

type TimelineEvent struct {
	At     generic.TimePoint
	Kind   EventKind
	Amount generic.Amount
	Ref    string // transaction or activity entry id
}

// GoalTimeline builds the sorted event list of one goal. Inputs are not modified.
func GoalTimeline(goalID AccountID, txs []Transaction, activities []ActivityEntry) []TimelineEvent {
	var events []TimelineEvent
	for _, tx := range txs {
		switch {
		case tx.Kind == KindIncome && tx.CreditAccount() == goalID:
			events = append(events, TimelineEvent{At: tx.Date, Kind: EventDeposit, Amount: tx.Amount, Ref: tx.ID})
		case tx.Kind == KindTransfer && tx.CreditAccount() == goalID:
			events = append(events, TimelineEvent{At: tx.Date, Kind: EventDeposit, Amount: tx.Amount, Ref: tx.ID})
			if tx.DebitAccount() == goalID {
				events = append(events, TimelineEvent{At: tx.Date, Kind: EventWithdrawal, Amount: tx.Amount, Ref: tx.ID})
			}
		case (tx.Kind == KindTransfer || tx.Kind == KindExpense) && tx.DebitAccount() == goalID:
			events = append(events, TimelineEvent{At: tx.Date, Kind: EventWithdrawal, Amount: tx.Amount, Ref: tx.ID})
		}
	}
	for _, e := range activities {
		if e.GoalID != goalID {
			continue
		}
		events = append(events, TimelineEvent{At: e.Date, Kind: EventDailyReturn, Amount: e.Amount, Ref: e.ID})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].At.Equal(events[j].At) {
			return events[i].At.Before(events[j].At)
		}
		return events[i].Kind < events[j].Kind
	})
	return events
}

// =============================================================================
// GOAL STATE - Principal and accrued return
// =============================================================================

type GoalState struct {
	Principal     generic.Amount `json:"principal"`
	AccruedReturn generic.Amount `json:"accruedReturn"`
}

// NewGoalState returns a state with both components at zero.
func NewGoalState() GoalState {
	return GoalState{Principal: generic.ZeroAmount(), AccruedReturn: generic.ZeroAmount()}
}

// Balance is principal + accrued return.
func (s GoalState) Balance() generic.Amount {
	return s.Principal.Add(s.AccruedReturn)
}

// Apply returns the state after one event.
func (s GoalState) Apply(e TimelineEvent) GoalState {
	switch e.Kind {
	case EventDeposit:
		s.Principal = s.Principal.Add(e.Amount)
	case EventDailyReturn:
		s.AccruedReturn = s.AccruedReturn.Add(e.Amount)
	case EventWithdrawal:
		fromPrincipal := e.Amount.Min(s.Principal).Max(generic.ZeroAmount())
		s.Principal = s.Principal.Sub(fromPrincipal)
		rest := e.Amount.Sub(fromPrincipal)
		s.AccruedReturn = s.AccruedReturn.Sub(rest).Max(generic.ZeroAmount())
	}
	return s
}

// ReplayGoal returns the state after every event of the goal's timeline.
func ReplayGoal(goalID AccountID, txs []Transaction, activities []ActivityEntry) []GoalState {
	events := GoalTimeline(goalID, txs, activities)
	states := make([]GoalState, 0, len(events))
	state := NewGoalState()
	for _, e := range events {
		state = state.Apply(e)
		states = append(states, state)
	}
	return states
}

// ReconstructGoalState replays the goal's timeline and returns the final state.
// Pure: the same inputs always give the same state.
func ReconstructGoalState(goalID AccountID, txs []Transaction, activities []ActivityEntry) GoalState {
	state := NewGoalState()
	for _, e := range GoalTimeline(goalID, txs, activities) {
		state = state.Apply(e)
	}
	return state
}
