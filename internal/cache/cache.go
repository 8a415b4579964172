package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"skipgram-query/internal/model"
)

// Cache provides prediction result caching
type Cache interface {
	// GetPredictions retrieves a cached prediction list by key
	// Returns nil if not found
	GetPredictions(ctx context.Context, key string) ([]model.Prediction, error)

	// SetPredictions stores a prediction list with TTL
	SetPredictions(ctx context.Context, key string, preds []model.Prediction, ttl time.Duration) error

	// Flush removes all cached predictions; used when a different
	// model directory is loaded
	Flush(ctx context.Context) error

	// Close closes the cache connection
	Close() error
}

// Key derives a stable cache key for a (word, k) query.
func Key(word string, k int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", word, k)))
	return hex.EncodeToString(sum[:16])
}
