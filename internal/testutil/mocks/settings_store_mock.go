package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/models"
)

// MockSettingsStore is a mock implementation of repository.NotificationSettingsStore
type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) GetByStudent(ctx context.Context, studentID int64) (*models.NotificationSettings, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationSettings), args.Error(1)
}
