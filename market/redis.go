package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akihiro4321/favefit-sub001/entity"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps market lists in redis as JSON arrays.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redis and pings it once.
func NewRedisCache(cfg entity.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]string, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read from Redis: %w", err)
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cached list: %w", err)
	}
	return items, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, items []string, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode list: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to Redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
