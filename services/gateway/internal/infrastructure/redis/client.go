package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	clientName  = "gateway-admin-ratelimit"
	pingTimeout = 2 * time.Second
)

// Client backs the admin rate limiter only. Timeouts are short so a slow Redis
// degrades to fail-open instead of stalling admin requests.
type Client struct {
	rdb *goredis.Client
}

func New(addr, password string, db int) *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			ClientName:   clientName,
			DialTimeout:  time.Second,
			ReadTimeout:  250 * time.Millisecond,
			WriteTimeout: 250 * time.Millisecond,
			PoolSize:     10,
			MaxRetries:   1,
		}),
	}
}

// Ping is used as the optional readiness check.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
