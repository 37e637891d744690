package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/wb-go/wbf/retry"
)

//go:generate mockgen -source=redis.go -destination=../../mocks/repository/kv/mock.go -package=mocks

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Redis stores values in Redis through the wbf client.
type Redis struct {
	client   cache
	strategy retry.Strategy
}

// NewRedis creates a Redis backend.
func NewRedis(client cache, strategy retry.Strategy) *Redis {
	return &Redis{client: client, strategy: strategy}
}

// Load returns the value stored under key. A redis.Nil reply means the key is absent.
func (r *Redis) Load(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.GetWithRetry(ctx, r.strategy, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	return value, true, nil
}

// Save replaces the value stored under key.
func (r *Redis) Save(ctx context.Context, key, value string) error {
	if err := r.client.SetWithRetry(ctx, r.strategy, key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}
