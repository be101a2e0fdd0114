package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/punchamoorthee/bankcore/internal/auth"
	"github.com/punchamoorthee/bankcore/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Roles    string `json:"roles"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "POST", "/users"); !ok {
		return
	}

	var req createUserRequest
	if !h.decodeBody(w, r, &req, "POST", "/users") {
		return
	}

	// Request problems are collected and reported together, same as the
	// transfer surface does.
	var entries []ErrorEntry
	if req.Username == "" {
		entry := newErrorEntry(codeInvalidRequest, kindValidationError, "username is required")
		entries = append(entries, entry)
	}
	if req.Email == "" {
		entry := newErrorEntry(codeInvalidRequest, kindValidationError, "email is required")
		entries = append(entries, entry)
	}
	if len(req.Password) < 8 {
		entry := newErrorEntry(codeInvalidRequest, kindValidationError, "password must be at least 8 characters")
		entries = append(entries, entry)
	}
	if len(entries) > 0 {
		h.respondError(w, http.StatusUnprocessableEntity, "POST", "/users", entries...)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.respondStorageError(w, r, err, "POST", "/users")
		return
	}

	roles := req.Roles
	if roles == "" {
		roles = auth.RoleCustomer
	}

	user, err := h.users.CreateUser(r.Context(), domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
		Roles:        roles,
	})
	if err != nil {
		h.respondStorageError(w, r, err, "POST", "/users")
		return
	}
	h.respondJSON(w, http.StatusCreated, user, "POST", "/users")
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "GET", "/users/{id}"); !ok {
		return
	}

	id, ok := h.pathID(w, mux.Vars(r)["id"], "GET", "/users/{id}")
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		entry := newErrorEntry(codeUserNotFound, kindResourceNotFound, fmt.Sprintf("user not found: %s", id))
		entry.Detail = map[string]any{"user_id": id.String()}
		h.respondError(w, http.StatusNotFound, "GET", "/users/{id}", entry)
		return
	}
	if err != nil {
		h.respondStorageError(w, r, err, "GET", "/users/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, user, "GET", "/users/{id}")
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "GET", "/users"); !ok {
		return
	}

	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.respondStorageError(w, r, err, "GET", "/users")
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	h.respondJSON(w, http.StatusOK, users, "GET", "/users")
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r, "DELETE", "/users/{id}"); !ok {
		return
	}

	id, ok := h.pathID(w, mux.Vars(r)["id"], "DELETE", "/users/{id}")
	if !ok {
		return
	}

	err := h.users.DeleteUser(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		entry := newErrorEntry(codeUserNotFound, kindResourceNotFound, fmt.Sprintf("user not found: %s", id))
		entry.Detail = map[string]any{"user_id": id.String()}
		h.respondError(w, http.StatusNotFound, "DELETE", "/users/{id}", entry)
		return
	}
	if err != nil {
		h.respondStorageError(w, r, err, "DELETE", "/users/{id}")
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil, "DELETE", "/users/{id}")
}
