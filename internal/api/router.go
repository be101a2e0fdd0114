package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the full route table. Everything under /api/v1 except the
// auth endpoints requires a valid access token; the transfer and CRUD
// handlers additionally require the admin role.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	apiV1.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost)
	apiV1.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)

	protected := apiV1.NewRoute().Subrouter()
	protected.Use(h.authenticate)

	protected.HandleFunc("/transfers", h.CreateTransfer).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)

	protected.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	protected.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	protected.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	protected.HandleFunc("/accounts/{id}", h.DeleteAccount).Methods(http.MethodDelete)
	protected.HandleFunc("/accounts/{id}/transactions", h.ListAccountTransactions).Methods(http.MethodGet)

	protected.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	protected.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.DeleteUser).Methods(http.MethodDelete)

	return r
}
