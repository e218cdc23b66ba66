/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Domain code wraps these with context; callers test with errors.Is.

ERROR CATEGORIES:
  1. Not found - a referenced record does not exist
  2. Validation - a record fails boundary validation
  3. Store - persistence failures

SEE ALSO:
  - ledger/errors.go: TransactionError with field-level detail
  - api/handlers.go: maps these errors to HTTP status codes
*/
package generic

import (
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrGoalNotFound is returned when a referenced goal doesn't exist.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrPocketNotFound is returned when a referenced pocket doesn't exist.
	ErrPocketNotFound = errors.New("pocket not found")

	// ErrTransactionNotFound is returned when a referenced transaction doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransaction is returned when a transaction fails boundary validation.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInvalidGoal is returned when a goal definition fails validation.
	ErrInvalidGoal = errors.New("invalid goal")

	// ErrInvalidPocket is returned when a pocket definition fails validation.
	ErrInvalidPocket = errors.New("invalid pocket")

	// ErrMainPocketRequired is returned when deleting the main pocket or
	// creating a second one.
	ErrMainPocketRequired = errors.New("exactly one main pocket is required")

	// ErrDuplicateID is returned when a record with the same id already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrStoreFailed is returned when a collection cannot be read or written.
	ErrStoreFailed = errors.New("store operation failed")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTransaction) ||
		errors.Is(err, ErrInvalidGoal) ||
		errors.Is(err, ErrInvalidPocket)
}

// IsConflict returns true if the request collides with existing state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrMainPocketRequired)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGoalNotFound) ||
		errors.Is(err, ErrPocketNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
