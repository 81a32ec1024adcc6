package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/models"
)

// MockNotificationStore is a mock implementation of repository.NotificationStore
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Insert(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationStore) Get(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationStore) FindPending(ctx context.Context, f models.NotificationFilter, scheduledBefore time.Time, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, f, scheduledBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationStore) CountPending(ctx context.Context, scheduledBefore time.Time) (int, error) {
	args := m.Called(ctx, scheduledBefore)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationStore) Claim(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationStore) Update(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationStore) FindByRecipient(ctx context.Context, recipientID int64, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationStore) HasPendingForRecipient(ctx context.Context, recipientID int64, t models.NotificationType) (bool, error) {
	args := m.Called(ctx, recipientID, t)
	return args.Bool(0), args.Error(1)
}
