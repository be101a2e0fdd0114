package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/punchamoorthee/bankcore/internal/domain"
	"github.com/punchamoorthee/bankcore/internal/transfer"
)

// Begin opens the atomic scope the transfer engine runs in. RepeatableRead
// plus row locks taken by GetAccountForUpdate keep the read-then-write on
// balances safe against concurrent transfers.
func (s *Store) Begin(ctx context.Context) (transfer.Tx, error) {
	tx, err := s.Db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	return &transferTx{tx: tx}, nil
}

type transferTx struct {
	tx pgx.Tx
}

// GetAccountForUpdate reads an account row and holds a row lock on it until
// the scope commits or rolls back. Callers acquire locks in ascending id
// order; this method does not reorder anything itself.
func (t *transferTx) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	row := t.tx.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1 FOR UPDATE", id)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("lock acquisition failed: %w", err)
	}
	return account, nil
}

// UpdateAccount persists the full row. The row is already locked by the
// preceding GetAccountForUpdate, so a vanished row indicates a bug or an
// out-of-band delete and comes back as domain.ErrNotFound.
func (t *transferTx) UpdateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	row := t.tx.QueryRow(ctx,
		"UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2 RETURNING "+accountColumns,
		account.Balance, account.ID)

	updated, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("account update failed: %w", err)
	}
	return updated, nil
}

// AppendTransaction inserts the immutable transfer record.
func (t *transferTx) AppendTransaction(ctx context.Context, sourceID, destinationID uuid.UUID, amount int64) (domain.Transaction, error) {
	row := t.tx.QueryRow(ctx,
		"INSERT INTO transactions (id, source_account_id, destination_account_id, amount) VALUES ($1, $2, $3, $4) RETURNING "+transactionColumns,
		uuid.New(), sourceID, destinationID, amount)

	transaction, err := scanTransaction(row)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction insert failed: %w", err)
	}
	return transaction, nil
}

func (t *transferTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}

func (t *transferTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("tx rollback failed: %w", err)
	}
	return nil
}
