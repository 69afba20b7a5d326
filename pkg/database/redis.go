package database

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to redis at the given URL. Callers tolerate a nil
// client, so an unconfigured redis simply disables caching rather than
// failing startup.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL cannot be empty")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Println("Successfully connected to redis.")
	return client, nil
}

// CloseRedisClient closes the redis client.
func CloseRedisClient(client *redis.Client) {
	if client != nil {
		_ = client.Close()
		log.Println("Redis client closed.")
	}
}
