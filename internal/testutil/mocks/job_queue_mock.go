package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/notify"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueProjection(limit int) error {
	args := m.Called(limit)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueNotificationTick(opts notify.BatchOptions) error {
	args := m.Called(opts)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueOverdueScan() error {
	args := m.Called()
	return args.Error(0)
}
