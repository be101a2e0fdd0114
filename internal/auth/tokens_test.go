package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/punchamoorthee/bankcore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(roles string) domain.User {
	return domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Active:   true,
		Roles:    roles,
	}
}

func TestIssueAndParsePair(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	user := testUser(RoleAdmin)

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	access, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), access.UserID())
	assert.NotEmpty(t, access.TokenID())
	assert.NoError(t, access.ValidateRoleAdmin())

	refresh, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), refresh.UserID())
	assert.NotEqual(t, access.TokenID(), refresh.TokenID())
	// The refresh token references its paired access token.
	assert.Equal(t, access.TokenID(), refresh.AccessTokenID)
}

func TestParseRejectsWrongTokenType(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := issuer.Issue(testUser(RoleCustomer))
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := issuer.Issue(testUser(RoleAdmin))
	require.NoError(t, err)

	other := NewTokenIssuer("other-secret", 15*time.Minute, 24*time.Hour)
	_, err = other.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)
	pair, err := issuer.Issue(testUser(RoleAdmin))
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	_, err := issuer.ParseAccess("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRoleAdmin(t *testing.T) {
	tests := []struct {
		roles   string
		allowed bool
	}{
		{"admin", true},
		{"customer,admin", true},
		{"customer", false},
		{"administrator", false},
		{"", false},
	}
	for _, tc := range tests {
		err := validateRoleAdmin(tc.roles)
		if tc.allowed {
			assert.NoError(t, err, "roles=%q", tc.roles)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "roles=%q", tc.roles)
		}
	}
}

func TestRemainingTTL(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	pair, err := issuer.Issue(testUser(RoleAdmin))
	require.NoError(t, err)

	access, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)

	ttl := RemainingTTL(&access.RegisteredClaims)
	assert.Greater(t, ttl, 55*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	assert.Zero(t, RemainingTTL(&jwt.RegisteredClaims{}))
}
