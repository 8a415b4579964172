package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"skipgram-query/internal/model"
)

// Key prefix for cached prediction lists
const predictKeyPrefix = "predict:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{
		client: client,
	}, nil
}

// GetPredictions retrieves a cached prediction list by key
func (c *RedisCache) GetPredictions(ctx context.Context, key string) ([]model.Prediction, error) {
	data, err := c.client.Get(ctx, predictKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var preds []model.Prediction
	if err := json.Unmarshal(data, &preds); err != nil {
		return nil, err
	}
	return preds, nil
}

// SetPredictions stores a prediction list with TTL
func (c *RedisCache) SetPredictions(ctx context.Context, key string, preds []model.Prediction, ttl time.Duration) error {
	data, err := json.Marshal(preds)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, predictKeyPrefix+key, data, ttl).Err()
}

// Flush removes all cached predictions. Prediction keys share a prefix, so
// a SCAN plus a pipelined delete is enough.
func (c *RedisCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, predictKeyPrefix+"*", 0).Iterator()

	pipe := c.client.Pipeline()
	count := 0

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if count > 0 {
		_, err := pipe.Exec(ctx)
		return err
	}

	return nil
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
