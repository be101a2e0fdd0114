package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by storage lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Account holds a balance in integer minor currency units (cents).
// Balance never goes negative; the transfer engine rejects any debit that
// would overdraw it and the schema enforces the same invariant.
type Account struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is the immutable record of one completed transfer.
// Rows are insert-only; nothing in the system updates or deletes them.
type Transaction struct {
	ID                   uuid.UUID `json:"id"`
	SourceAccountID      uuid.UUID `json:"source_account_id"`
	DestinationAccountID uuid.UUID `json:"destination_account_id"`
	Amount               int64     `json:"amount"`
	CreatedAt            time.Time `json:"created_at"`
}

// User owns accounts and authenticates against the API.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Roles        string    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TransferRequest is the payload from the client.
type TransferRequest struct {
	SourceAccountID      uuid.UUID `json:"source_account_id"`
	DestinationAccountID uuid.UUID `json:"destination_account_id"`
	Amount               int64     `json:"amount"`
}
