package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/token"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "session:"), mr
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Put(ctx, "t1", "C01", time.Hour))
	assert.True(t, mr.Exists("session:t1"))
	assert.Equal(t, time.Hour, mr.TTL("session:t1"))

	got, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "C01", got)

	require.NoError(t, s.Delete(ctx, "t1"))
	_, err = s.Get(ctx, "t1")
	assert.ErrorIs(t, err, token.ErrNotFound)
	assert.NoError(t, s.Delete(ctx, "t1"))
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Put(ctx, "t1", "C01", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "t1")
	assert.ErrorIs(t, err, token.ErrNotFound)
}

func TestStoreDeleteUser(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Put(ctx, "a1", "C01", time.Hour))
	require.NoError(t, s.Put(ctx, "a2", "C01", time.Hour))
	require.NoError(t, s.Put(ctx, "b1", "C02", time.Hour))

	require.NoError(t, s.DeleteUser(ctx, "C01"))
	for _, tok := range []string{"a1", "a2"} {
		_, err := s.Get(ctx, tok)
		assert.ErrorIs(t, err, token.ErrNotFound, tok)
	}
	assert.False(t, mr.Exists("session-users:C01"))

	got, err := s.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "C02", got)

	assert.NoError(t, s.DeleteUser(ctx, "nobody"))
}

func TestStoreTokenCannotReachIndex(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Put(ctx, "t1", "C01", time.Hour))
	assert.True(t, mr.Exists("session-users:C01"))

	for _, tok := range []string{"user:C01", "-users:C01", "users:C01", "../session-users:C01"} {
		_, err := s.Get(ctx, tok)
		assert.ErrorIs(t, err, token.ErrNotFound, tok)
		assert.NoError(t, s.Delete(ctx, tok), tok)
	}

	got, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "C01", got)
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)
	mr.Close()

	_, err := s.Get(ctx, "t1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, token.ErrNotFound)
}
