package transfer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/punchamoorthee/bankcore/internal/domain"
)

// Store opens atomic scopes against account and ledger storage and serves
// ledger lookups outside any scope.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
}

// Tx is one atomic scope. GetAccountForUpdate locks the row it returns for
// the lifetime of the scope; Commit applies every write together or the scope
// rolls back with nothing persisted. Rollback after Commit is a no-op so
// callers can defer it unconditionally.
type Tx interface {
	GetAccountForUpdate(ctx context.Context, id uuid.UUID) (domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	AppendTransaction(ctx context.Context, sourceID, destinationID uuid.UUID, amount int64) (domain.Transaction, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Service moves funds between two accounts atomically and appends the
// immutable transaction record. It never retries on a lock conflict; the
// conflict surfaces as a *StorageError and the caller issues a new call.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Transfer debits sourceID and credits destinationID by amount inside one
// atomic scope. On success it returns the created transaction record.
// Failures are either ValidationErrors (request problems, no side effects)
// or *StorageError (unexpected store failure, scope rolled back).
func (s *Service) Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amount int64) (domain.Transaction, error) {
	s.logger.DebugContext(ctx, "transfer requested",
		"source_account_id", sourceID,
		"destination_account_id", destinationID,
		"amount", amount,
	)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return domain.Transaction{}, &StorageError{Op: "begin transfer scope", Err: err}
	}
	defer tx.Rollback(ctx)

	// Rules 1-3 are evaluated independently and collected; nothing is
	// mutated until the aggregate is known to be empty.
	var errs ValidationErrors
	if amount <= 0 {
		errs = append(errs, InvalidAmountError{Amount: amount})
	}
	if sourceID == destinationID {
		errs = append(errs, AccountsAreSameError{})
	}

	source, destination, lookupErrs, err := s.lockAccounts(ctx, tx, sourceID, destinationID)
	if err != nil {
		return domain.Transaction{}, &StorageError{Op: "lock accounts", Err: err}
	}
	errs = append(errs, lookupErrs...)

	if len(errs) > 0 {
		return domain.Transaction{}, errs
	}

	// Insufficient funds is only meaningful once both accounts resolved,
	// and is reported alone.
	if source.Balance < amount {
		return domain.Transaction{}, ValidationErrors{InsufficientFundsError{}}
	}

	source.Balance -= amount
	destination.Balance += amount

	if _, err := tx.UpdateAccount(ctx, source); err != nil {
		return domain.Transaction{}, &StorageError{Op: "update source account", Err: err}
	}
	if _, err := tx.UpdateAccount(ctx, destination); err != nil {
		return domain.Transaction{}, &StorageError{Op: "update destination account", Err: err}
	}

	transaction, err := tx.AppendTransaction(ctx, sourceID, destinationID, amount)
	if err != nil {
		return domain.Transaction{}, &StorageError{Op: "append transaction", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Transaction{}, &StorageError{Op: "commit transfer scope", Err: err}
	}

	s.logger.InfoContext(ctx, "transfer committed",
		"transaction_id", transaction.ID,
		"source_account_id", sourceID,
		"destination_account_id", destinationID,
		"amount", amount,
	)
	return transaction, nil
}

// GetTransaction returns a committed transaction record.
// Returns domain.ErrNotFound when no such record exists.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	transaction, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Transaction{}, err
	}
	if err != nil {
		return domain.Transaction{}, &StorageError{Op: "get transaction", Err: err}
	}
	return transaction, nil
}

// lockAccounts fetches both accounts with row locks held until the scope
// ends. Locks are always acquired in ascending id byte order so two transfers
// touching the same pair in opposite directions cannot deadlock. Missing rows
// come back as validation entries (source before destination); any other
// store failure is returned as err. When both ids are equal only one lookup
// runs, so a missing row yields a single source entry.
func (s *Service) lockAccounts(ctx context.Context, tx Tx, sourceID, destinationID uuid.UUID) (source, destination domain.Account, errs ValidationErrors, err error) {
	var sourceMissing, destinationMissing bool

	fetch := func(id uuid.UUID) (domain.Account, bool, error) {
		account, err := tx.GetAccountForUpdate(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, true, nil
		}
		if err != nil {
			return domain.Account{}, false, err
		}
		return account, false, nil
	}

	switch {
	case sourceID == destinationID:
		source, sourceMissing, err = fetch(sourceID)
		destination = source
	case bytes.Compare(sourceID[:], destinationID[:]) < 0:
		source, sourceMissing, err = fetch(sourceID)
		if err == nil {
			destination, destinationMissing, err = fetch(destinationID)
		}
	default:
		destination, destinationMissing, err = fetch(destinationID)
		if err == nil {
			source, sourceMissing, err = fetch(sourceID)
		}
	}
	if err != nil {
		return domain.Account{}, domain.Account{}, nil, err
	}

	if sourceMissing {
		errs = append(errs, SourceAccountNotFoundError{AccountID: sourceID})
	}
	if destinationMissing {
		errs = append(errs, DestinationAccountNotFoundError{AccountID: destinationID})
	}
	return source, destination, errs, nil
}
