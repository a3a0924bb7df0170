package keycloak

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/recrutment/hireai/services/gateway/internal/metrics"
)

const DefaultSafetyMargin = 15 * time.Second

// Token is a bearer token with its absolute expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// TokenFetcher obtains a fresh token from the directory.
type TokenFetcher func(ctx context.Context) (Token, error)

// TokenCache holds one token per client and refreshes it lazily once
// now >= expiresAt - margin. The cell is swapped atomically and there is no
// lock around the refresh: concurrent callers that all see a stale cell each
// fetch, and the last store wins.
type TokenCache struct {
	cell   atomic.Pointer[Token]
	fetch  TokenFetcher
	margin time.Duration
	now    func() time.Time
}

func NewTokenCache(fetch TokenFetcher, margin time.Duration, now func() time.Time) *TokenCache {
	if margin < 0 {
		margin = 0
	}
	if now == nil {
		now = time.Now
	}
	return &TokenCache{fetch: fetch, margin: margin, now: now}
}

// Token returns the cached access token or fetches a new one.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if t := c.cell.Load(); t != nil && c.now().Before(t.ExpiresAt.Add(-c.margin)) {
		return t.AccessToken, nil
	}

	t, err := c.fetch(ctx)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.TokenRefreshes.WithLabelValues("ok").Inc()
	c.cell.Store(&t)
	return t.AccessToken, nil
}

// Invalidate drops the cached token if it is still the given one.
// A token stored by a concurrent refresh is left alone.
func (c *TokenCache) Invalidate(accessToken string) {
	if t := c.cell.Load(); t != nil && t.AccessToken == accessToken {
		c.cell.CompareAndSwap(t, nil)
	}
}

// expiresAt prefers expires_in; without it the exp claim of the access token is read
// without verifying the signature. A token with neither is treated as already expired
// so it is used once and never cached.
func expiresAt(tr tokenResponse, now time.Time) time.Time {
	if tr.ExpiresIn > 0 {
		return now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return now
}
