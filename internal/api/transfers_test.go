package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/punchamoorthee/bankcore/internal/auth"
	"github.com/punchamoorthee/bankcore/internal/domain"
	"github.com/punchamoorthee/bankcore/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferBody(sourceID, destinationID uuid.UUID, amount int64) map[string]any {
	return map[string]any{
		"source_account_id":      sourceID,
		"destination_account_id": destinationID,
		"amount":                 amount,
	}
}

func TestCreateTransferCommitted(t *testing.T) {
	env := newTestEnv(t)
	sourceID, destinationID := uuid.New(), uuid.New()
	transactionID := uuid.New()

	env.transfers.transferFn = func(ctx context.Context, src, dst uuid.UUID, amount int64) (domain.Transaction, error) {
		assert.Equal(t, sourceID, src)
		assert.Equal(t, destinationID, dst)
		assert.Equal(t, int64(25), amount)
		return domain.Transaction{
			ID:                   transactionID,
			SourceAccountID:      src,
			DestinationAccountID: dst,
			Amount:               amount,
			CreatedAt:            time.Now(),
		}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/v1/transfers", env.token(t, auth.RoleAdmin),
		transferBody(sourceID, destinationID, 25))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/transactions/"+transactionID.String(), rec.Header().Get("Location"))

	var transaction domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transaction))
	assert.Equal(t, transactionID, transaction.ID)
	assert.Equal(t, int64(25), transaction.Amount)
}

func TestCreateTransferValidationEnvelope(t *testing.T) {
	env := newTestEnv(t)
	sourceID, destinationID := uuid.New(), uuid.New()

	env.transfers.transferFn = func(ctx context.Context, src, dst uuid.UUID, amount int64) (domain.Transaction, error) {
		return domain.Transaction{}, transfer.ValidationErrors{
			transfer.SourceAccountNotFoundError{AccountID: src},
			transfer.DestinationAccountNotFoundError{AccountID: dst},
		}
	}

	rec := env.do(t, http.MethodPost, "/api/v1/transfers", env.token(t, auth.RoleAdmin),
		transferBody(sourceID, destinationID, 25))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 2)

	assert.Equal(t, "transfer_source_account_not_found", resp.Errors[0].Code)
	assert.Equal(t, "validation_error", resp.Errors[0].Kind)
	assert.Equal(t, sourceID.String(), resp.Errors[0].Detail["source_account_id"])
	assert.NotEmpty(t, resp.Errors[0].TraceID)

	assert.Equal(t, "transfer_destination_account_not_found", resp.Errors[1].Code)
	assert.Equal(t, destinationID.String(), resp.Errors[1].Detail["destination_account_id"])
}

func TestCreateTransferInsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	env.transfers.transferFn = func(ctx context.Context, src, dst uuid.UUID, amount int64) (domain.Transaction, error) {
		return domain.Transaction{}, transfer.ValidationErrors{transfer.InsufficientFundsError{}}
	}

	rec := env.do(t, http.MethodPost, "/api/v1/transfers", env.token(t, auth.RoleAdmin),
		transferBody(uuid.New(), uuid.New(), 1000))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "transfer_insufficient_funds", resp.Errors[0].Code)
}

func TestCreateTransferStorageErrorIsOpaque(t *testing.T) {
	env := newTestEnv(t)
	env.transfers.transferFn = func(ctx context.Context, src, dst uuid.UUID, amount int64) (domain.Transaction, error) {
		return domain.Transaction{}, &transfer.StorageError{Op: "commit transfer", Err: errors.New("connection reset by peer")}
	}

	rec := env.do(t, http.MethodPost, "/api/v1/transfers", env.token(t, auth.RoleAdmin),
		transferBody(uuid.New(), uuid.New(), 25))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "database_error", resp.Errors[0].Code)
	// The response never leaks the underlying store failure.
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestCreateTransferMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/transfers", env.token(t, auth.RoleAdmin), "not-an-object")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "invalid_request", resp.Errors[0].Code)
}

func TestCreateTransferRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/transfers", env.token(t, auth.RoleCustomer),
		transferBody(uuid.New(), uuid.New(), 25))

	require.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "auth_forbidden", resp.Errors[0].Code)
}

func TestGetTransaction(t *testing.T) {
	env := newTestEnv(t)
	transactionID := uuid.New()
	env.transfers.getFn = func(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
		if id == transactionID {
			return domain.Transaction{ID: id, Amount: 25, CreatedAt: time.Now()}, nil
		}
		return domain.Transaction{}, domain.ErrNotFound
	}

	rec := env.do(t, http.MethodGet, "/api/v1/transactions/"+transactionID.String(), env.token(t, auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var transaction domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transaction))
	assert.Equal(t, transactionID, transaction.ID)
}

func TestGetTransactionNotFound(t *testing.T) {
	env := newTestEnv(t)
	missingID := uuid.New()

	rec := env.do(t, http.MethodGet, "/api/v1/transactions/"+missingID.String(), env.token(t, auth.RoleAdmin), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "transaction_not_found", resp.Errors[0].Code)
	assert.Equal(t, "resource_not_found", resp.Errors[0].Kind)
	assert.Equal(t, missingID.String(), resp.Errors[0].Detail["transaction_id"])
}

func TestGetTransactionMalformedID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/transactions/not-a-uuid", env.token(t, auth.RoleAdmin), nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrors(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "invalid_request", resp.Errors[0].Code)
}
