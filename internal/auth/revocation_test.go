package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRevocationList(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRevocationList(client), mr
}

func TestRevokeAndCheck(t *testing.T) {
	list, _ := newTestRevocationList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "token-a", time.Hour))

	revoked, err = list.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeEntryExpires(t *testing.T) {
	list, mr := newTestRevocationList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "token-a", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeExpiredTokenIsNoOp(t *testing.T) {
	list, mr := newTestRevocationList(t)

	require.NoError(t, list.Revoke(context.Background(), "token-a", -time.Second))
	assert.Empty(t, mr.Keys())
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
