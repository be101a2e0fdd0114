package auth

import (
	"errors"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var (
	// ErrForbidden is returned when the token's roles do not grant the
	// requested capability.
	ErrForbidden = errors.New("insufficient privileges")
	// ErrInvalidToken covers malformed, mis-signed, expired and
	// wrong-type tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is returned for tokens on the revocation list.
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims is the capability surface shared by both token shapes. Handlers
// depend on this interface, not on a concrete claims struct.
type Claims interface {
	// ValidateRoleAdmin returns ErrForbidden unless the claims carry the
	// admin role.
	ValidateRoleAdmin() error
	// UserID is the token subject.
	UserID() string
	// TokenID is the unique token identifier used by the revocation list.
	TokenID() string
}

// Token type discriminator carried in the typ claim, so one token shape can
// never be replayed as the other.
const (
	TokenTypeAccess  = 0
	TokenTypeRefresh = 1
)

// AccessClaims authenticates regular API requests.
type AccessClaims struct {
	Roles     string `json:"roles"`
	TokenType int    `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims authenticates token refresh requests. It carries a reference
// to the paired access token so both can be revoked together.
type RefreshClaims struct {
	Roles         string `json:"roles"`
	TokenType     int    `json:"typ"`
	AccessTokenID string `json:"prf"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) ValidateRoleAdmin() error  { return validateRoleAdmin(c.Roles) }
func (c *AccessClaims) UserID() string            { return c.RegisteredClaims.Subject }
func (c *AccessClaims) TokenID() string           { return c.RegisteredClaims.ID }
func (c *RefreshClaims) ValidateRoleAdmin() error { return validateRoleAdmin(c.Roles) }
func (c *RefreshClaims) UserID() string           { return c.RegisteredClaims.Subject }
func (c *RefreshClaims) TokenID() string          { return c.RegisteredClaims.ID }

// validateRoleAdmin checks a comma-separated roles claim for the admin role.
func validateRoleAdmin(roles string) error {
	if slices.Contains(strings.Split(roles, ","), RoleAdmin) {
		return nil
	}
	return ErrForbidden
}
