package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"skipgram-query/internal/model"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetPredictions(ctx context.Context, key string) ([]model.Prediction, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Prediction), args.Error(1)
}

func (m *MockCache) SetPredictions(ctx context.Context, key string, preds []model.Prediction, ttl time.Duration) error {
	args := m.Called(ctx, key, preds, ttl)
	return args.Error(0)
}

func (m *MockCache) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
