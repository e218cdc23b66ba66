/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Stored records
  (Transaction, Pocket, Goal, ActivityEntry) already carry their wire form
  and are returned as they are; the types here cover request bodies and
  computed views.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Computed response types returned to clients
  - *Response: Wrappers around several DTOs

VALIDATION:
  Request types carry go-playground/validator struct tags. Handlers run
  them through factory.NewValidator, which understands decimal amounts.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/goal.go: GoalJSON, the goal creation body
*/
package api

import (
	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateTransactionRequest is the request to record a transaction.
type CreateTransactionRequest struct {
	ID             string         `json:"id,omitempty"`
	Type           string         `json:"type" validate:"required,transaction_type"`
	Amount         generic.Amount `json:"amount" validate:"gt=0"`
	SourcePocketID string         `json:"sourcePocketId,omitempty"`
	TargetPocketID string         `json:"targetPocketId,omitempty"`
	SourceGoalID   string         `json:"sourceGoalId,omitempty"`
	TargetGoalID   string         `json:"targetGoalId,omitempty"`
	Date           string         `json:"date" validate:"required,datetime=2006-01-02"`
	Description    string         `json:"description,omitempty" validate:"max=200"`
}

func (r CreateTransactionRequest) toTransaction() ledger.Transaction {
	// Date is already validated.
	day, _ := generic.ParseDay(r.Date)
	return ledger.Transaction{
		ID:             r.ID,
		Kind:           ledger.TransactionKind(r.Type),
		Amount:         r.Amount,
		SourcePocketID: ledger.AccountID(r.SourcePocketID),
		TargetPocketID: ledger.AccountID(r.TargetPocketID),
		SourceGoalID:   ledger.AccountID(r.SourceGoalID),
		TargetGoalID:   ledger.AccountID(r.TargetGoalID),
		Date:           day,
		Description:    r.Description,
	}
}

// CreatePocketRequest is the request to create a pocket.
type CreatePocketRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" validate:"required,max=120"`
	Type string `json:"type" validate:"required,pocket_type"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AmountDTO pairs an exact amount with its display form.
type AmountDTO struct {
	Value   generic.Amount `json:"value"`
	Display string         `json:"display"`
}

// AccountBalanceDTO is one row of the balances view.
type AccountBalanceDTO struct {
	AccountID string    `json:"accountId"`
	Name      string    `json:"name,omitempty"`
	Kind      string    `json:"kind"` // pocket, goal or unassigned
	Type      string    `json:"type,omitempty"`
	Balance   AmountDTO `json:"balance"`
}

// BalancesResponse is the projected balance of every account.
type BalancesResponse struct {
	Accounts  []AccountBalanceDTO `json:"accounts"`
	Total     AmountDTO           `json:"total"`
	NetIncome AmountDTO           `json:"netIncome"`
}

// ProgressDTO relates a goal balance to its target.
type ProgressDTO struct {
	Target        AmountDTO       `json:"target"`
	Remaining     AmountDTO       `json:"remaining"`
	Percent       generic.Percent `json:"percent"`
	Deadline      string          `json:"deadline,omitempty"`
	MonthsLeft    int             `json:"monthsLeft"`
	MonthlyNeeded AmountDTO       `json:"monthlyNeeded"`
	Completed     bool            `json:"completed"`
}

// GoalBalanceDTO is the goal view: balance after accrual plus progress.
type GoalBalanceDTO struct {
	GoalID   string      `json:"goalId"`
	Type     string      `json:"type"`
	Balance  AmountDTO   `json:"balance"`
	Progress ProgressDTO `json:"progress"`
}

// AccrualDTO reports one accrual run.
type AccrualDTO struct {
	GoalID        string                 `json:"goalId"`
	DaysProcessed int                    `json:"daysProcessed"`
	DaysRemaining int                    `json:"daysRemaining"`
	TotalAdded    AmountDTO              `json:"totalAdded"`
	Checkpoint    generic.TimePoint      `json:"lastReturnCalculationDate"`
	Entries       []ledger.ActivityEntry `json:"entries"`
}

// GoalStateDTO is the reconstructed principal/accrued split.
type GoalStateDTO struct {
	GoalID        string    `json:"goalId"`
	Principal     AmountDTO `json:"principal"`
	AccruedReturn AmountDTO `json:"accruedReturn"`
	Balance       AmountDTO `json:"balance"`
}

// HealthDTO is the health check body.
type HealthDTO struct {
	Status string `json:"status"`
	Today  string `json:"today"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
