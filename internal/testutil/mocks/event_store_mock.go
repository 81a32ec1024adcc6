package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/events"
)

// MockEventStore is a mock implementation of repository.ReviewEventStore
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) FindUnprocessed(ctx context.Context, limit int) ([]events.ReviewCompleted, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.ReviewCompleted), args.Error(1)
}

func (m *MockEventStore) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
