package api

import (
	"net/http"
	"strings"

	"github.com/punchamoorthee/bankcore/internal/auth"
)

// authenticate verifies the bearer token and rejects revoked tokens before
// any handler runs. Verified claims travel on the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			entry := newErrorEntry(codeAuthMissingCredentials, kindAuthenticationError, "missing credentials")
			h.respondError(w, http.StatusUnauthorized, r.Method, r.URL.Path, entry)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			entry := newErrorEntry(codeAuthInvalidToken, kindAuthenticationError, "authorization header must use the Bearer scheme")
			h.respondError(w, http.StatusUnauthorized, r.Method, r.URL.Path, entry)
			return
		}

		claims, err := h.issuer.ParseAccess(token)
		if err != nil {
			entry := newErrorEntry(codeAuthInvalidToken, kindAuthenticationError, "invalid token")
			h.respondError(w, http.StatusUnauthorized, r.Method, r.URL.Path, entry)
			return
		}

		revoked, err := h.revocations.IsRevoked(r.Context(), claims.TokenID())
		if err != nil {
			h.respondStorageError(w, r, err, r.Method, r.URL.Path)
			return
		}
		if revoked {
			entry := newErrorEntry(codeAuthTokenRevoked, kindAuthenticationError, "token revoked")
			h.respondError(w, http.StatusUnauthorized, r.Method, r.URL.Path, entry)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

// requireAdmin gates the administrative surface. The engine itself performs
// no authentication; it trusts this check.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request, method, endpoint string) (auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		entry := newErrorEntry(codeAuthMissingCredentials, kindAuthenticationError, "missing credentials")
		h.respondError(w, http.StatusUnauthorized, method, endpoint, entry)
		return nil, false
	}
	if err := claims.ValidateRoleAdmin(); err != nil {
		entry := newErrorEntry(codeAuthForbidden, kindAuthenticationError, "admin role required")
		h.respondError(w, http.StatusForbidden, method, endpoint, entry)
		return nil, false
	}
	return claims, true
}
