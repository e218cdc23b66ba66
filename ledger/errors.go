package ledger

import (
	"fmt"

	"github.com/warp/pocket-ledger/generic"
)

// TransactionError names the field that failed boundary validation.
type TransactionError struct {
	TransactionID string `json:"transactionId,omitempty"`
	Field         string `json:"field"`
	Reason        string `json:"reason"`
}

func (e *TransactionError) Error() string {
	if e.TransactionID == "" {
		return fmt.Sprintf("invalid transaction: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid transaction %s: %s %s", e.TransactionID, e.Field, e.Reason)
}

func (e *TransactionError) Unwrap() error {
	return generic.ErrInvalidTransaction
}

// ValidateTransaction applies the creation-boundary rules the engine itself
// assumes: a known kind, a positive amount, a date, the accounts each kind
// needs, and distinct transfer endpoints.
func ValidateTransaction(tx Transaction) error {
	fail := func(field, reason string) error {
		return &TransactionError{TransactionID: tx.ID, Field: field, Reason: reason}
	}

	if !tx.Kind.IsValid() {
		return fail("type", fmt.Sprintf("%q is not income, expense or transfer", tx.Kind))
	}
	if !tx.Amount.IsPositive() {
		return fail("amount", "must be positive")
	}
	if tx.Date.IsZero() {
		return fail("date", "is required")
	}

	switch tx.Kind {
	case KindIncome:
		if tx.CreditAccount() == "" {
			return fail("targetPocketId", "income needs a pocket or goal")
		}
	case KindExpense:
		if tx.DebitAccount() == "" {
			return fail("sourcePocketId", "expense needs a pocket or goal")
		}
	case KindTransfer:
		source, target := tx.DebitAccount(), tx.CreditAccount()
		if source == "" {
			return fail("sourcePocketId", "transfer needs a source")
		}
		if target == "" {
			return fail("targetPocketId", "transfer needs a target")
		}
		if source == target {
			return fail("targetPocketId", "must differ from the source")
		}
	}
	return nil
}
