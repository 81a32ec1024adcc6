package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/events"
	"github.com/studypulse/studypulse/internal/models"
)

// MockScheduleStore is a mock implementation of repository.ReviewScheduleStore
type MockScheduleStore struct {
	mock.Mock
}

func (m *MockScheduleStore) Insert(ctx context.Context, s models.ReviewSchedule) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScheduleStore) Get(ctx context.Context, id int64) (*models.ReviewSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSchedule), args.Error(1)
}

func (m *MockScheduleStore) GetByStudentAndProblem(ctx context.Context, studentID, problemID int64) (*models.ReviewSchedule, error) {
	args := m.Called(ctx, studentID, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSchedule), args.Error(1)
}

func (m *MockScheduleStore) FindActiveByStudent(ctx context.Context, studentID int64) ([]models.ReviewSchedule, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewSchedule), args.Error(1)
}

func (m *MockScheduleStore) FindDueByStudent(ctx context.Context, studentID int64, before time.Time) ([]models.ReviewSchedule, error) {
	args := m.Called(ctx, studentID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewSchedule), args.Error(1)
}

func (m *MockScheduleStore) FindOverdueByStudent(ctx context.Context, studentID int64, now time.Time) ([]models.ReviewSchedule, error) {
	args := m.Called(ctx, studentID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewSchedule), args.Error(1)
}

func (m *MockScheduleStore) ListStudentsWithOverdue(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockScheduleStore) Update(ctx context.Context, s models.ReviewSchedule, expectedVersion int64) error {
	args := m.Called(ctx, s, expectedVersion)
	return args.Error(0)
}

func (m *MockScheduleStore) UpdateWithEvent(ctx context.Context, s models.ReviewSchedule, expectedVersion int64, ev events.ReviewCompleted) error {
	args := m.Called(ctx, s, expectedVersion, ev)
	return args.Error(0)
}

func (m *MockScheduleStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
