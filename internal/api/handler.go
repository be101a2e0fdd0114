package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/punchamoorthee/bankcore/internal/auth"
	"github.com/punchamoorthee/bankcore/internal/domain"
)

// Metrics
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankcore_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bankcore_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankcore_transfers_total",
		Help: "Transfer attempts by outcome",
	}, []string{"outcome"})
)

// TransferService is the engine surface the HTTP layer binds to.
type TransferService interface {
	Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amount int64) (domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
}

// AccountStore is the administrative account CRUD surface.
type AccountStore interface {
	CreateAccount(ctx context.Context, ownerID uuid.UUID, balance int64) (domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

// UserStore is the administrative user CRUD surface.
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	transfers   TransferService
	accounts    AccountStore
	users       UserStore
	issuer      *auth.TokenIssuer
	revocations *auth.RevocationList
	logger      *slog.Logger
}

func NewHandler(transfers TransferService, accounts AccountStore, users UserStore, issuer *auth.TokenIssuer, revocations *auth.RevocationList, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		transfers:   transfers,
		accounts:    accounts,
		users:       users,
		issuer:      issuer,
		revocations: revocations,
		logger:      logger,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "GET", "/health")
}

// Helpers

func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload any, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, method, endpoint string, entries ...ErrorEntry) {
	h.respondJSON(w, code, ErrorResponse{Status: code, Errors: entries}, method, endpoint)
}

// respondStorageError logs the failure with full detail and answers with an
// opaque 500. Callers never see the underlying store error.
func (h *Handler) respondStorageError(w http.ResponseWriter, r *http.Request, err error, method, endpoint string) {
	h.logger.ErrorContext(r.Context(), "storage failure", "error", err, "method", method, "endpoint", endpoint)
	h.respondError(w, http.StatusInternalServerError, method, endpoint, databaseErrorEntry())
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any, method, endpoint string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		entry := newErrorEntry(codeInvalidRequest, kindValidationError, "malformed JSON body")
		h.respondError(w, http.StatusBadRequest, method, endpoint, entry)
		return false
	}
	return true
}

// pathID parses the {id} route variable. A malformed id is a client error,
// not a lookup miss.
func (h *Handler) pathID(w http.ResponseWriter, raw string, method, endpoint string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		entry := newErrorEntry(codeInvalidRequest, kindValidationError, "id must be a valid UUID")
		h.respondError(w, http.StatusBadRequest, method, endpoint, entry)
		return uuid.Nil, false
	}
	return id, true
}
