package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/models"
)

// MockNotificationScheduler is a mock implementation of services.NotificationScheduler
type MockNotificationScheduler struct {
	mock.Mock
}

func (m *MockNotificationScheduler) ScheduleReviewDue(ctx context.Context, s models.ReviewSchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockOverdueNotifier is a mock implementation of worker.OverdueNotifier
type MockOverdueNotifier struct {
	mock.Mock
}

func (m *MockOverdueNotifier) ScheduleOverdueReminder(ctx context.Context, studentID int64, overdueCount int, urgency models.OverduePriority) error {
	args := m.Called(ctx, studentID, overdueCount, urgency)
	return args.Error(0)
}
