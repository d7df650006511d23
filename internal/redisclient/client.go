package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTokenNotFound is returned when a token is unknown or expired.
var ErrTokenNotFound = errors.New("token not found")

// Client wraps Redis as the opaque bearer token store: one key per
// token, value is the owning user id, expiry handles token lifetime.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SaveToken stores a bearer token for a user with a TTL.
func (c *Client) SaveToken(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, tokenKey(token), userID, ttl).Err()
}

// UserIDByToken resolves a bearer token to its user id.
func (c *Client) UserIDByToken(ctx context.Context, token string) (int64, error) {
	userID, err := c.rdb.Get(ctx, tokenKey(token)).Int64()
	if err == redis.Nil {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}
	return userID, nil
}

// DeleteToken revokes a bearer token.
func (c *Client) DeleteToken(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, tokenKey(token)).Err()
}

func tokenKey(token string) string {
	return fmt.Sprintf("auth:token:%s", token)
}
