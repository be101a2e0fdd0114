package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/punchamoorthee/bankcore/internal/transfer"
)

// Error kinds classify every failure the API can report.
const (
	kindAuthenticationError = "authentication_error"
	kindValidationError     = "validation_error"
	kindResourceNotFound    = "resource_not_found"
	kindDatabaseError       = "database_error"
)

// Error codes are the stable machine-readable identifiers clients switch on.
const (
	codeAuthWrongCredentials               = "auth_wrong_credentials"
	codeAuthMissingCredentials             = "auth_missing_credentials"
	codeAuthInvalidToken                   = "auth_invalid_token"
	codeAuthTokenRevoked                   = "auth_token_revoked"
	codeAuthForbidden                      = "auth_forbidden"
	codeInvalidRequest                     = "invalid_request"
	codeUserNotFound                       = "user_not_found"
	codeAccountNotFound                    = "account_not_found"
	codeTransactionNotFound                = "transaction_not_found"
	codeTransferInvalidAmount              = "transfer_invalid_amount"
	codeTransferAccountsAreSame            = "transfer_accounts_are_same"
	codeTransferSourceAccountNotFound      = "transfer_source_account_not_found"
	codeTransferDestinationAccountNotFound = "transfer_destination_account_not_found"
	codeTransferInsufficientFunds          = "transfer_insufficient_funds"
	codeDatabaseError                      = "database_error"
)

// ErrorResponse is the JSON error envelope. Validation failures may carry
// several entries for a single request.
type ErrorResponse struct {
	Status int          `json:"status"`
	Errors []ErrorEntry `json:"errors"`
}

// ErrorEntry describes one failure.
type ErrorEntry struct {
	Code      string         `json:"code,omitempty"`
	Kind      string         `json:"kind,omitempty"`
	Message   string         `json:"message"`
	Detail    map[string]any `json:"detail,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	TraceID   string         `json:"trace_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func newErrorEntry(code, kind, message string) ErrorEntry {
	return ErrorEntry{
		Code:      code,
		Kind:      kind,
		Message:   message,
		TraceID:   strings.ReplaceAll(uuid.NewString(), "-", ""),
		Timestamp: time.Now().UTC(),
	}
}

// validationEntries maps the engine's aggregated validation failures onto
// response entries, one per failure, preserving order.
func validationEntries(errs transfer.ValidationErrors) []ErrorEntry {
	entries := make([]ErrorEntry, len(errs))
	for i, err := range errs {
		entries[i] = validationEntry(err)
	}
	return entries
}

// validationEntry switches over the closed set of validation variants. The
// default arm only fires if the engine grows a variant this mapping does not
// know about; it keeps the validation kind so the status stays correct.
func validationEntry(err transfer.ValidationError) ErrorEntry {
	switch e := err.(type) {
	case transfer.InvalidAmountError:
		entry := newErrorEntry(codeTransferInvalidAmount, kindValidationError, e.Error())
		entry.Detail = map[string]any{"amount": e.Amount}
		entry.Reason = "must be a positive number of minor currency units"
		return entry
	case transfer.AccountsAreSameError:
		entry := newErrorEntry(codeTransferAccountsAreSame, kindValidationError, e.Error())
		entry.Reason = "source and destination accounts must be different"
		return entry
	case transfer.SourceAccountNotFoundError:
		entry := newErrorEntry(codeTransferSourceAccountNotFound, kindValidationError, e.Error())
		entry.Detail = map[string]any{"source_account_id": e.AccountID.String()}
		entry.Reason = "must be an existing account"
		return entry
	case transfer.DestinationAccountNotFoundError:
		entry := newErrorEntry(codeTransferDestinationAccountNotFound, kindValidationError, e.Error())
		entry.Detail = map[string]any{"destination_account_id": e.AccountID.String()}
		entry.Reason = "must be an existing account"
		return entry
	case transfer.InsufficientFundsError:
		entry := newErrorEntry(codeTransferInsufficientFunds, kindValidationError, e.Error())
		entry.Reason = "source account balance must be sufficient to cover the transfer amount"
		return entry
	default:
		return newErrorEntry("", kindValidationError, err.Error())
	}
}

func databaseErrorEntry() ErrorEntry {
	return newErrorEntry(codeDatabaseError, kindDatabaseError, "internal server error")
}
