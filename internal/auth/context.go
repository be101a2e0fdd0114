package auth

import "context"

type claimsContextKey struct{}

// ContextWithClaims stashes verified access claims on the request context.
func ContextWithClaims(ctx context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the verified access claims, if any.
func ClaimsFromContext(ctx context.Context) (*AccessClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*AccessClaims)
	return claims, ok
}
