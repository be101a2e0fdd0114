package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/punchamoorthee/bankcore/internal/domain"
)

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenIssuer signs and verifies the HS256 token pair.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue creates a fresh access/refresh pair for the user. The refresh token
// references the access token id, so revoking on logout covers both.
func (i *TokenIssuer) Issue(user domain.User) (TokenPair, error) {
	now := time.Now()
	accessID := newTokenID()

	access := AccessClaims{
		Roles:     user.Roles,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        accessID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &access).SignedString(i.secret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := RefreshClaims{
		Roles:         user.Roles,
		TokenType:     TokenTypeRefresh,
		AccessTokenID: accessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &refresh).SignedString(i.secret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}, nil
}

// ParseAccess verifies the signature and time claims of an access token.
func (i *TokenIssuer) ParseAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("not an access token: %w", ErrInvalidToken)
	}
	return claims, nil
}

// ParseRefresh verifies the signature and time claims of a refresh token.
func (i *TokenIssuer) ParseRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh || claims.AccessTokenID == "" {
		return nil, fmt.Errorf("not a refresh token: %w", ErrInvalidToken)
	}
	return claims, nil
}

func (i *TokenIssuer) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

// RemainingTTL reports how long a token with the given expiry stays relevant
// for the revocation list. Already-expired tokens need no entry.
func RemainingTTL(claims *jwt.RegisteredClaims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}

func newTokenID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
