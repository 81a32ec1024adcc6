package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/studypulse/studypulse/internal/models"
)

// MockStudyRecordStore is a mock implementation of repository.StudyRecordStore
type MockStudyRecordStore struct {
	mock.Mock
}

func (m *MockStudyRecordStore) Insert(ctx context.Context, r models.StudyRecord) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudyRecordStore) FindByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudyRecord, error) {
	args := m.Called(ctx, studentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudyRecord), args.Error(1)
}

func (m *MockStudyRecordStore) FindByStudentAndProblem(ctx context.Context, studentID, problemID int64, limit int) ([]models.StudyRecord, error) {
	args := m.Called(ctx, studentID, problemID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudyRecord), args.Error(1)
}

func (m *MockStudyRecordStore) CountByStudentSince(ctx context.Context, studentID int64, since time.Time) (int, error) {
	args := m.Called(ctx, studentID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockStudyRecordStore) ReviewDays(ctx context.Context, studentID int64, since time.Time) ([]string, error) {
	args := m.Called(ctx, studentID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStudyRecordStore) SumResponseTime(ctx context.Context, studentID int64) (int64, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudyRecordStore) AnonymizeByStudentAndProblem(ctx context.Context, studentID, problemID int64) error {
	args := m.Called(ctx, studentID, problemID)
	return args.Error(0)
}
