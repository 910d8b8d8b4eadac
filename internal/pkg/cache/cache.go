// Package cache provides a Redis-backed cache for hot lookups
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache keeps per-school check-in tokens close to the handler so the
// QR endpoint does not hit Postgres on every scan. A nil client disables
// caching entirely and every call degrades to a miss.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and returns a TokenCache. An empty address
// returns a disabled cache and no error.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*TokenCache, error) {
	if addr == "" {
		return &TokenCache{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &TokenCache{client: client, ttl: ttl}, nil
}

func tokenKey(schoolID int64) string {
	return fmt.Sprintf("school:%d:checkin-token", schoolID)
}

// GetToken returns the cached token for a school. ok is false on a miss
// or when the cache is disabled.
func (c *TokenCache) GetToken(ctx context.Context, schoolID int64) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, tokenKey(schoolID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// SetToken stores the token for a school with the configured TTL.
func (c *TokenCache) SetToken(ctx context.Context, schoolID int64, token string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, tokenKey(schoolID), token, c.ttl)
}

// InvalidateToken drops the cached token, used after a rotation.
func (c *TokenCache) InvalidateToken(ctx context.Context, schoolID int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, tokenKey(schoolID))
}

// Healthy reports whether Redis answers a ping. A disabled cache is
// reported healthy since nothing depends on it.
func (c *TokenCache) Healthy(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection.
func (c *TokenCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
