package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/punchamoorthee/bankcore/internal/domain"
)

const userColumns = "id, username, email, password_hash, active, roles, created_at, updated_at"

// CreateUser inserts a new user row. The password hash is produced by the
// caller; the store never sees plaintext credentials.
func (s *Store) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	id := user.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := s.Db.QueryRow(ctx,
		"INSERT INTO users (id, username, email, password_hash, active, roles) VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+userColumns,
		id, user.Username, user.Email, user.PasswordHash, user.Active, user.Roles)

	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := s.Db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUserNotFound(row)
}

// GetUserByUsername retrieves a user by username, for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := s.Db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	return scanUserNotFound(row)
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.Db.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes a user row.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Active, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func scanUserNotFound(row pgx.Row) (domain.User, error) {
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}
