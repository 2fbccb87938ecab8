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

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, "sid", 3, time.Hour))
	uid, live, err := s.Lookup(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, uint(3), uid)

	require.NoError(t, s.Revoke(ctx, "sid"))
	_, live, err = s.Lookup(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	require.NoError(t, s.Create(ctx, "sid", 1, time.Minute))
	s.now = func() time.Time { return base.Add(time.Minute) }

	_, live, err := s.Lookup(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, live)
	assert.Empty(t, s.sessions)
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	s := NewRedisStore(rdb)

	require.NoError(t, s.Create(ctx, "sid", 42, time.Hour))
	assert.True(t, mr.Exists("session:sid"))
	assert.Equal(t, time.Hour, mr.TTL("session:sid"))

	uid, live, err := s.Lookup(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, uint(42), uid)

	require.NoError(t, s.Revoke(ctx, "sid"))
	_, live, err = s.Lookup(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	s := NewRedisStore(rdb)

	require.NoError(t, s.Create(ctx, "sid", 1, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, live, err := s.Lookup(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := DialRedis(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	rdb.Close()

	mr.Close()
	_, err = DialRedis(context.Background(), mr.Addr(), "")
	assert.Error(t, err)
}
