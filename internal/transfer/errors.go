package transfer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError is implemented by the closed set of transfer validation
// failures. Every variant is a concrete struct carrying only the fields it
// needs, so callers can type-switch exhaustively when mapping to responses.
type ValidationError interface {
	error
	validationError()
}

// InvalidAmountError reports a zero or negative transfer amount.
type InvalidAmountError struct {
	Amount int64
}

func (e InvalidAmountError) Error() string {
	return fmt.Sprintf("transfer amount must be positive: %d", e.Amount)
}

// AccountsAreSameError reports a transfer where source and destination match.
type AccountsAreSameError struct{}

func (AccountsAreSameError) Error() string {
	return "source and destination accounts are the same"
}

// SourceAccountNotFoundError reports a missing source account.
type SourceAccountNotFoundError struct {
	AccountID uuid.UUID
}

func (e SourceAccountNotFoundError) Error() string {
	return fmt.Sprintf("source account not found: %s", e.AccountID)
}

// DestinationAccountNotFoundError reports a missing destination account.
type DestinationAccountNotFoundError struct {
	AccountID uuid.UUID
}

func (e DestinationAccountNotFoundError) Error() string {
	return fmt.Sprintf("destination account not found: %s", e.AccountID)
}

// InsufficientFundsError reports a source balance lower than the amount.
type InsufficientFundsError struct{}

func (InsufficientFundsError) Error() string {
	return "insufficient funds"
}

func (InvalidAmountError) validationError()              {}
func (AccountsAreSameError) validationError()            {}
func (SourceAccountNotFoundError) validationError()      {}
func (DestinationAccountNotFoundError) validationError() {}
func (InsufficientFundsError) validationError()          {}

// ValidationErrors aggregates every problem detected for a single transfer
// attempt. A caller who mistyped both account ids gets both entries back in
// one response instead of one at a time.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "transfer validation failed: " + strings.Join(msgs, "; ")
}

// StorageError wraps any unexpected failure of the underlying store,
// including lock conflicts. It is non-recoverable from the engine's point of
// view; the caller may issue a fresh Transfer call to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
