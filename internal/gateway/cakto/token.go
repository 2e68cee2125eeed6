package cakto

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// tokenExpirySkew renews the token slightly before the gateway's own
// expiry to avoid using a token that dies mid-request.
const tokenExpirySkew = 30 * time.Second

// TokenCache holds the gateway access token with its expiry. Concurrent
// callers share one in-flight token request through the singleflight
// group instead of each issuing their own.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	group     singleflight.Group
}

func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Get returns the cached token or fetches a fresh one via fetch.
func (c *TokenCache) Get(ctx context.Context, fetch func(ctx context.Context) (string, time.Time, error)) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.expiresAt.Add(-tokenExpirySkew)) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	value, err, _ := c.group.Do("token", func() (any, error) {
		token, expiresAt, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.token = token
		c.expiresAt = expiresAt
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}
