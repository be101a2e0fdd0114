package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/punchamoorthee/bankcore/internal/domain"
)

type createAccountRequest struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Balance int64     `json:"balance"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "POST", "/accounts"); !ok {
		return
	}

	var req createAccountRequest
	if !h.decodeBody(w, r, &req, "POST", "/accounts") {
		return
	}
	if req.Balance < 0 {
		entry := newErrorEntry(codeInvalidRequest, kindValidationError, "opening balance must not be negative")
		h.respondError(w, http.StatusUnprocessableEntity, "POST", "/accounts", entry)
		return
	}
	if req.OwnerID == uuid.Nil {
		entry := newErrorEntry(codeInvalidRequest, kindValidationError, "owner_id is required")
		h.respondError(w, http.StatusUnprocessableEntity, "POST", "/accounts", entry)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), req.OwnerID, req.Balance)
	if err != nil {
		h.respondStorageError(w, r, err, "POST", "/accounts")
		return
	}
	h.respondJSON(w, http.StatusCreated, account, "POST", "/accounts")
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "GET", "/accounts/{id}"); !ok {
		return
	}

	id, ok := h.pathID(w, mux.Vars(r)["id"], "GET", "/accounts/{id}")
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		entry := newErrorEntry(codeAccountNotFound, kindResourceNotFound, fmt.Sprintf("account not found: %s", id))
		entry.Detail = map[string]any{"account_id": id.String()}
		h.respondError(w, http.StatusNotFound, "GET", "/accounts/{id}", entry)
		return
	}
	if err != nil {
		h.respondStorageError(w, r, err, "GET", "/accounts/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, account, "GET", "/accounts/{id}")
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "GET", "/accounts"); !ok {
		return
	}

	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		h.respondStorageError(w, r, err, "GET", "/accounts")
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	h.respondJSON(w, http.StatusOK, accounts, "GET", "/accounts")
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "DELETE", "/accounts/{id}"); !ok {
		return
	}

	id, ok := h.pathID(w, mux.Vars(r)["id"], "DELETE", "/accounts/{id}")
	if !ok {
		return
	}

	err := h.accounts.DeleteAccount(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		entry := newErrorEntry(codeAccountNotFound, kindResourceNotFound, fmt.Sprintf("account not found: %s", id))
		entry.Detail = map[string]any{"account_id": id.String()}
		h.respondError(w, http.StatusNotFound, "DELETE", "/accounts/{id}", entry)
		return
	}
	if err != nil {
		h.respondStorageError(w, r, err, "DELETE", "/accounts/{id}")
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil, "DELETE", "/accounts/{id}")
}

// ListAccountTransactions returns the account's transfer history, both
// directions, newest first.
func (h *Handler) ListAccountTransactions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "GET", "/accounts/{id}/transactions"); !ok {
		return
	}

	id, ok := h.pathID(w, mux.Vars(r)["id"], "GET", "/accounts/{id}/transactions")
	if !ok {
		return
	}

	if _, err := h.accounts.GetAccount(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			entry := newErrorEntry(codeAccountNotFound, kindResourceNotFound, fmt.Sprintf("account not found: %s", id))
			entry.Detail = map[string]any{"account_id": id.String()}
			h.respondError(w, http.StatusNotFound, "GET", "/accounts/{id}/transactions", entry)
			return
		}
		h.respondStorageError(w, r, err, "GET", "/accounts/{id}/transactions")
		return
	}

	transactions, err := h.accounts.ListAccountTransactions(r.Context(), id)
	if err != nil {
		h.respondStorageError(w, r, err, "GET", "/accounts/{id}/transactions")
		return
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	h.respondJSON(w, http.StatusOK, transactions, "GET", "/accounts/{id}/transactions")
}
