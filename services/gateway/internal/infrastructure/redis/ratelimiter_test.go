package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestFixedWindowLimiter_NilClientAllows(t *testing.T) {
	l := NewFixedWindowLimiter(nil)

	d, err := l.AllowFixedWindow(context.Background(), "k", 10, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 10, d.Remaining)
}

func TestFixedWindowLimiter_LimitZeroAllows(t *testing.T) {
	c, _ := newTestClient(t)
	l := NewFixedWindowLimiter(c)

	d, err := l.AllowFixedWindow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_BlocksAfterLimit(t *testing.T) {
	c, mr := newTestClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.AllowFixedWindow(ctx, "rl:admin:u:a1:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "hit %d", i)
		assert.Equal(t, 3-i, d.Remaining)
	}

	d, err := l.AllowFixedWindow(ctx, "rl:admin:u:a1:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 4, d.Count)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)

	ttl := mr.TTL("rl:admin:u:a1:1")
	assert.Greater(t, ttl, time.Duration(0))
}

func TestFixedWindowLimiter_WindowExpiryResets(t *testing.T) {
	c, mr := newTestClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := l.AllowFixedWindow(ctx, "k", 1, time.Second)
		require.NoError(t, err)
	}
	mr.FastForward(2 * time.Second)

	d, err := l.AllowFixedWindow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestFixedWindowLimiter_RedisDownReturnsError(t *testing.T) {
	c, mr := newTestClient(t)
	l := NewFixedWindowLimiter(c)
	mr.Close()

	_, err := l.AllowFixedWindow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	c, _ := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))
}
