package cache

import (
	"context"
	"fmt"
	"time"

	"feedcore/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewClient dials Redis and verifies connectivity with a PING before
// returning, the same fail-fast shape as postgres.NewDB.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
