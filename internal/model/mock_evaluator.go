package model

import "github.com/stretchr/testify/mock"

// MockEvaluator is a mock implementation of Evaluator using testify/mock.
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(word string, k int) ([]Prediction, error) {
	args := m.Called(word, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Prediction), args.Error(1)
}
