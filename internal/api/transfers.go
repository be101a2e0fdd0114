package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/punchamoorthee/bankcore/internal/domain"
	"github.com/punchamoorthee/bankcore/internal/transfer"
)

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transfers"))
	defer timer.ObserveDuration()

	if _, ok := h.requireAdmin(w, r, "POST", "/transfers"); !ok {
		return
	}

	var req domain.TransferRequest
	if !h.decodeBody(w, r, &req, "POST", "/transfers") {
		return
	}

	transaction, err := h.transfers.Transfer(r.Context(), req.SourceAccountID, req.DestinationAccountID, req.Amount)
	if err != nil {
		var validationErrs transfer.ValidationErrors
		if errors.As(err, &validationErrs) {
			transfersTotal.WithLabelValues("rejected").Inc()
			h.respondError(w, http.StatusUnprocessableEntity, "POST", "/transfers", validationEntries(validationErrs)...)
			return
		}
		transfersTotal.WithLabelValues("storage_error").Inc()
		h.respondStorageError(w, r, err, "POST", "/transfers")
		return
	}

	transfersTotal.WithLabelValues("committed").Inc()
	w.Header().Set("Location", fmt.Sprintf("/api/v1/transactions/%s", transaction.ID))
	h.respondJSON(w, http.StatusCreated, transaction, "POST", "/transfers")
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "GET", "/transactions/{id}"); !ok {
		return
	}

	id, ok := h.pathID(w, mux.Vars(r)["id"], "GET", "/transactions/{id}")
	if !ok {
		return
	}

	transaction, err := h.transfers.GetTransaction(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		entry := newErrorEntry(codeTransactionNotFound, kindResourceNotFound, fmt.Sprintf("transaction not found: %s", id))
		entry.Detail = map[string]any{"transaction_id": id.String()}
		h.respondError(w, http.StatusNotFound, "GET", "/transactions/{id}", entry)
		return
	}
	if err != nil {
		h.respondStorageError(w, r, err, "GET", "/transactions/{id}")
		return
	}

	h.respondJSON(w, http.StatusOK, transaction, "GET", "/transactions/{id}")
}
