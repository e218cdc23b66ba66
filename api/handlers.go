/*
handlers.go - HTTP API handlers for the pocket and goal ledger

PURPOSE:
  Exposes the ledger service via REST API. Handles HTTP request/response,
  JSON serialization and validation, and delegates to ledger.Service.

ENDPOINTS:
  Balances:
    GET    /api/balances                 Projected balance of every account

  Transactions:
    GET    /api/transactions             List transactions
    POST   /api/transactions             Record income, expense or transfer
    DELETE /api/transactions/{id}        Delete a transaction

  Pockets:
    GET    /api/pockets                  List pockets
    POST   /api/pockets                  Create pocket
    DELETE /api/pockets/{id}             Delete pocket (never the main one)

  Goals:
    GET    /api/goals                    List goals
    POST   /api/goals                    Create goal from a JSON definition
    GET    /api/goals/{id}               Get goal
    DELETE /api/goals/{id}               Delete goal and its activity log
    GET    /api/goals/{id}/balance       Accrue to today, then balance + progress
    POST   /api/goals/{id}/accrue        Accrue to today, report the run
    GET    /api/goals/{id}/state         Principal / accrued split (no accrual)
    GET    /api/goals/{id}/activities    Daily return log

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (struct tags)
  3. Call ledger.Service
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (duplicate id, main pocket rules)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/pocket-ledger/factory"
	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service     *ledger.Service
	GoalFactory *factory.GoalFactory
	Currency    string
	Logger      *zap.Logger

	validate *validator.Validate
}

// NewHandler creates a new handler around the service. Balances are
// formatted in currency (ISO 4217).
func NewHandler(svc *ledger.Service, currency string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Service:     svc,
		GoalFactory: factory.NewGoalFactory(),
		Currency:    currency,
		Logger:      logger,
		validate:    factory.NewValidator(),
	}
}

func (h *Handler) amount(a generic.Amount) AmountDTO {
	return AmountDTO{Value: a, Display: a.Format(h.Currency)}
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok", Today: h.Service.Simulator.Clock().String()})
}

// =============================================================================
// BALANCE ENDPOINTS
// =============================================================================

// GetBalances projects every account from the transaction log.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txs, err := h.Service.Transactions(ctx)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	pockets, err := h.Service.Pockets(ctx)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	goals, err := h.Service.Goals(ctx)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	balances := ledger.ProjectBalances(txs)
	resp := BalancesResponse{
		Accounts:  []AccountBalanceDTO{},
		Total:     h.amount(balances.Total()),
		NetIncome: h.amount(ledger.NetIncome(txs)),
	}

	seen := make(map[ledger.AccountID]bool)
	for _, p := range pockets {
		seen[p.ID] = true
		resp.Accounts = append(resp.Accounts, AccountBalanceDTO{
			AccountID: string(p.ID), Name: p.Name, Kind: "pocket", Type: string(p.Kind),
			Balance: h.amount(balances.Of(p.ID)),
		})
	}
	for _, g := range goals {
		seen[g.ID] = true
		resp.Accounts = append(resp.Accounts, AccountBalanceDTO{
			AccountID: string(g.ID), Name: g.Name, Kind: "goal", Type: string(g.Kind),
			Balance: h.amount(balances.Of(g.ID)),
		})
	}
	// Deleted or never-registered accounts still hold money in the log.
	for _, id := range balances.Accounts() {
		if seen[id] {
			continue
		}
		resp.Accounts = append(resp.Accounts, AccountBalanceDTO{
			AccountID: string(id), Kind: "unassigned",
			Balance: h.amount(balances.Of(id)),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// TRANSACTION ENDPOINTS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Service.Transactions(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.Service.AddTransaction(r.Context(), req.toTransaction())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// POCKET ENDPOINTS
// =============================================================================

func (h *Handler) ListPockets(w http.ResponseWriter, r *http.Request) {
	pockets, err := h.Service.Pockets(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if pockets == nil {
		pockets = []ledger.Pocket{}
	}
	writeJSON(w, http.StatusOK, pockets)
}

func (h *Handler) CreatePocket(w http.ResponseWriter, r *http.Request) {
	var req CreatePocketRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.Service.CreatePocket(r.Context(), ledger.Pocket{
		ID:   ledger.AccountID(req.ID),
		Name: req.Name,
		Kind: ledger.PocketKind(req.Type),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) DeletePocket(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePocket(r.Context(), accountParam(r)); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// GOAL ENDPOINTS
// =============================================================================

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Service.Goals(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if goals == nil {
		goals = []ledger.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

// CreateGoal accepts a factory.GoalJSON definition.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var def factory.GoalJSON
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	goal, _, err := h.GoalFactory.FromJSON(def)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	created, err := h.Service.CreateGoal(r.Context(), goal)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.Service.Goal(r.Context(), accountParam(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteGoal(r.Context(), accountParam(r)); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGoalBalance is the goal view load: accrual runs once, then the facade
// is read.
func (h *Handler) GetGoalBalance(w http.ResponseWriter, r *http.Request) {
	id := accountParam(r)
	ctx := r.Context()

	progress, err := h.Service.GoalProgress(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	goal, err := h.Service.Goal(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GoalBalanceDTO{
		GoalID:  string(id),
		Type:    string(goal.Kind),
		Balance: h.amount(progress.Balance),
		Progress: ProgressDTO{
			Target:        h.amount(progress.Target),
			Remaining:     h.amount(progress.Remaining),
			Percent:       progress.Percent,
			Deadline:      progress.Deadline.String(),
			MonthsLeft:    progress.MonthsLeft,
			MonthlyNeeded: h.amount(progress.MonthlyNeeded),
			Completed:     progress.Completed,
		},
	})
}

func (h *Handler) AccrueGoal(w http.ResponseWriter, r *http.Request) {
	id := accountParam(r)
	result, err := h.Service.RunDailyAccrual(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	entries := result.Entries
	if entries == nil {
		entries = []ledger.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, AccrualDTO{
		GoalID:        string(id),
		DaysProcessed: result.DaysProcessed,
		DaysRemaining: result.DaysRemaining,
		TotalAdded:    h.amount(result.TotalAdded),
		Checkpoint:    result.Goal.LastReturnCalculationDate,
		Entries:       entries,
	})
}

func (h *Handler) GetGoalState(w http.ResponseWriter, r *http.Request) {
	id := accountParam(r)
	state, err := h.Service.ReconstructGoalState(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GoalStateDTO{
		GoalID:        string(id),
		Principal:     h.amount(state.Principal),
		AccruedReturn: h.amount(state.AccruedReturn),
		Balance:       h.amount(state.Balance()),
	})
}

func (h *Handler) ListGoalActivities(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.Activities(r.Context(), accountParam(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []ledger.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// =============================================================================
// HELPERS
// =============================================================================

func accountParam(r *http.Request) ledger.AccountID {
	return ledger.AccountID(chi.URLParam(r, "id"))
}

// decode reads and validates a JSON body. It writes the 400 response itself
// and reports whether the handler should continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "validation",
			Details: factory.Describe(err),
		})
		return false
	}
	return true
}

// writeServiceError maps domain errors to HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var txErr *ledger.TransactionError
	switch {
	case errors.As(err, &txErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid transaction", Code: "validation", Details: txErr})
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		h.Logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
