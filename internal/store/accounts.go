package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/punchamoorthee/bankcore/internal/domain"
)

const accountColumns = "id, owner_id, balance, created_at, updated_at"

// CreateAccount inserts a new account for ownerID with the given opening
// balance in minor units.
func (s *Store) CreateAccount(ctx context.Context, ownerID uuid.UUID, balance int64) (domain.Account, error) {
	row := s.Db.QueryRow(ctx,
		"INSERT INTO accounts (id, owner_id, balance) VALUES ($1, $2, $3) RETURNING "+accountColumns,
		uuid.New(), ownerID, balance)

	account, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

// GetAccount retrieves a single account by id.
func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	row := s.Db.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("select account: %w", err)
	}
	return account, nil
}

// ListAccounts returns every account, newest first.
func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.Db.Query(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes an account row. Transfers never delete accounts;
// this exists for the administrative CRUD surface only.
func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Db.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.OwnerID, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
