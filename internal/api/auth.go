package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/punchamoorthee/bankcore/internal/auth"
	"github.com/punchamoorthee/bankcore/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, &req, "POST", "/auth/login") {
		return
	}

	// Lookup misses and password mismatches answer identically so the
	// endpoint cannot be used to enumerate usernames.
	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, domain.ErrNotFound) {
		h.respondWrongCredentials(w, "POST", "/auth/login")
		return
	}
	if err != nil {
		h.respondStorageError(w, r, err, "POST", "/auth/login")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.respondWrongCredentials(w, "POST", "/auth/login")
		return
	}
	if !user.Active {
		h.respondWrongCredentials(w, "POST", "/auth/login")
		return
	}

	pair, err := h.issuer.Issue(user)
	if err != nil {
		h.respondStorageError(w, r, err, "POST", "/auth/login")
		return
	}
	h.respondJSON(w, http.StatusOK, pair, "POST", "/auth/login")
}

// Refresh exchanges a valid refresh token for a fresh pair. The used refresh
// token and its paired access token are revoked so they cannot be replayed.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.refreshClaims(w, r, "POST", "/auth/refresh")
	if !ok {
		return
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		entry := newErrorEntry(codeAuthInvalidToken, kindAuthenticationError, "invalid token")
		h.respondError(w, http.StatusUnauthorized, "POST", "/auth/refresh", entry)
		return
	}

	// Roles may have changed since the token was issued, so reload them.
	user, err := h.users.GetUser(r.Context(), userID)
	if errors.Is(err, domain.ErrNotFound) {
		h.respondWrongCredentials(w, "POST", "/auth/refresh")
		return
	}
	if err != nil {
		h.respondStorageError(w, r, err, "POST", "/auth/refresh")
		return
	}
	if !user.Active {
		h.respondWrongCredentials(w, "POST", "/auth/refresh")
		return
	}

	if err := h.revokePair(r, claims); err != nil {
		h.respondStorageError(w, r, err, "POST", "/auth/refresh")
		return
	}

	pair, err := h.issuer.Issue(user)
	if err != nil {
		h.respondStorageError(w, r, err, "POST", "/auth/refresh")
		return
	}
	h.respondJSON(w, http.StatusOK, pair, "POST", "/auth/refresh")
}

// Logout revokes the presented refresh token together with its paired access
// token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.refreshClaims(w, r, "POST", "/auth/logout")
	if !ok {
		return
	}

	if err := h.revokePair(r, claims); err != nil {
		h.respondStorageError(w, r, err, "POST", "/auth/logout")
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil, "POST", "/auth/logout")
}

// refreshClaims parses and revocation-checks the bearer refresh token.
func (h *Handler) refreshClaims(w http.ResponseWriter, r *http.Request, method, endpoint string) (*auth.RefreshClaims, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if header == "" || !found {
		entry := newErrorEntry(codeAuthMissingCredentials, kindAuthenticationError, "missing credentials")
		h.respondError(w, http.StatusUnauthorized, method, endpoint, entry)
		return nil, false
	}

	claims, err := h.issuer.ParseRefresh(token)
	if err != nil {
		entry := newErrorEntry(codeAuthInvalidToken, kindAuthenticationError, "invalid token")
		h.respondError(w, http.StatusUnauthorized, method, endpoint, entry)
		return nil, false
	}

	revoked, err := h.revocations.IsRevoked(r.Context(), claims.TokenID())
	if err != nil {
		h.respondStorageError(w, r, err, method, endpoint)
		return nil, false
	}
	if revoked {
		entry := newErrorEntry(codeAuthTokenRevoked, kindAuthenticationError, "token revoked")
		h.respondError(w, http.StatusUnauthorized, method, endpoint, entry)
		return nil, false
	}
	return claims, true
}

func (h *Handler) revokePair(r *http.Request, claims *auth.RefreshClaims) error {
	ttl := auth.RemainingTTL(&claims.RegisteredClaims)
	if err := h.revocations.Revoke(r.Context(), claims.TokenID(), ttl); err != nil {
		return err
	}
	// The paired access token expires before the refresh token, so its
	// remaining refresh TTL is a safe upper bound.
	return h.revocations.Revoke(r.Context(), claims.AccessTokenID, ttl)
}

func (h *Handler) respondWrongCredentials(w http.ResponseWriter, method, endpoint string) {
	entry := newErrorEntry(codeAuthWrongCredentials, kindAuthenticationError, "wrong credentials")
	h.respondError(w, http.StatusUnauthorized, method, endpoint, entry)
}
