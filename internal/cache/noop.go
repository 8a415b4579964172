package cache

import (
	"context"
	"time"

	"skipgram-query/internal/model"
)

// NoOpCache is a cache implementation that does nothing.
// Used as a fallback when Redis is unavailable - all operations succeed
// but no actual caching occurs (always cache miss).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetPredictions always returns nil (cache miss)
func (c *NoOpCache) GetPredictions(ctx context.Context, key string) ([]model.Prediction, error) {
	return nil, nil
}

// SetPredictions does nothing and always succeeds
func (c *NoOpCache) SetPredictions(ctx context.Context, key string, preds []model.Prediction, ttl time.Duration) error {
	return nil
}

// Flush does nothing and always succeeds
func (c *NoOpCache) Flush(ctx context.Context) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
