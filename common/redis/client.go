package redis

import (
	"context"
	"fmt"
	"time"

	"rainpath-cases/common/config"

	"github.com/go-redis/redis/v8"
)

// Client alias so callers do not import go-redis directly.
type Client = redis.Client

const (
	dialTimeout = 2 * time.Second
	pingTimeout = 3 * time.Second
)

// Connect builds a client and pings it; on failure the client is closed and the ping error
// returned, so callers can fall back to another draft store.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
		MaxRetries:  1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Close closes client if it is non-nil.
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
