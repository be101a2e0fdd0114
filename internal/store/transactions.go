package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/punchamoorthee/bankcore/internal/domain"
)

const transactionColumns = "id, source_account_id, destination_account_id, amount, created_at"

// GetTransaction retrieves a committed transaction record by id.
func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	row := s.Db.QueryRow(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = $1", id)

	transaction, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Transaction{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return transaction, nil
}

// ListAccountTransactions returns the transactions an account took part in,
// on either side, newest first.
func (s *Store) ListAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE source_account_id = $1 OR destination_account_id = $1 ORDER BY created_at DESC",
		accountID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.SourceAccountID, &t.DestinationAccountID, &t.Amount, &t.CreatedAt)
	return t, err
}
