package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/models"
)

// MockSender is a mock implementation of notify.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
