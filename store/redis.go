package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Redis keeps session tokens in Redis with a TTL, so sessions expire even
// if the server never gets to clear them.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the given address and verifies it with a ping.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

// Close releases the client.
func (r *Redis) Close() error { return r.client.Close() }

// SetToken implements SessionStore.
func (r *Redis) SetToken(ctx context.Context, username, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKeyPrefix+username, token, ttl).Err(); err != nil {
		return fmt.Errorf("storing session for %s: %w", username, err)
	}
	return nil
}

// Token implements SessionStore.
func (r *Redis) Token(ctx context.Context, username string) (string, error) {
	token, err := r.client.Get(ctx, sessionKeyPrefix+username).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrUnknownUser
	case err != nil:
		return "", fmt.Errorf("reading session for %s: %w", username, err)
	}
	return token, nil
}

// ClearToken implements SessionStore.
func (r *Redis) ClearToken(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+username).Err(); err != nil {
		return fmt.Errorf("clearing session for %s: %w", username, err)
	}
	return nil
}
