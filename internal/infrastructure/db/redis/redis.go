// Package redis backs the local KV medium with a device-local Redis instance
// and publishes the post-save device signal.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and pings it. The medium must survive restarts, so
// an instance with neither AOF nor RDB snapshots enabled is only warned about
// through the returned flag.
func Connect(ctx context.Context, cfg Config) (client *redis.Client, durable bool, err error) {
	client = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  dialTimeout,
		WriteTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, false, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	return client, persistent(pingCtx, client), nil
}

// persistent reports whether the server writes its data to disk. CONFIG may
// be disabled on managed instances; that case counts as durable.
func persistent(ctx context.Context, client *redis.Client) bool {
	vals, err := client.ConfigGet(ctx, "appendonly").Result()
	if err != nil {
		return true
	}
	if vals["appendonly"] == "yes" {
		return true
	}
	save, err := client.ConfigGet(ctx, "save").Result()
	if err != nil {
		return true
	}
	return save["save"] != ""
}
