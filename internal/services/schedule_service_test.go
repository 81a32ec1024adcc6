package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/clock"
	apperrors "github.com/studypulse/studypulse/internal/errors"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
	"github.com/studypulse/studypulse/internal/services"
	"github.com/studypulse/studypulse/internal/testutil/mocks"
)

func newScheduleService(schedules *mocks.MockScheduleStore, records *mocks.MockStudyRecordStore) services.ScheduleService {
	return services.NewScheduleService(schedules, records, clock.NewFake(queueNow))
}

var owner = models.Actor{ID: 7, Role: models.RoleStudent}

func TestCreateSchedule(t *testing.T) {
	schedules := new(mocks.MockScheduleStore)
	schedules.On("GetByStudentAndProblem", mock.Anything, int64(7), int64(42)).Return(nil, nil)
	schedules.On("Insert", mock.Anything, mock.AnythingOfType("models.ReviewSchedule")).Return(int64(11), nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	sched, err := svc.CreateSchedule(context.Background(), owner, 7, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(11), sched.ID)
	assert.Equal(t, 1, sched.IntervalDays)
	assert.Equal(t, 2.5, sched.EaseFactor)
	assert.Equal(t, queueNow.AddDate(0, 0, 1), sched.NextReviewAt)
	schedules.AssertExpectations(t)
}

func TestCreateSchedule_IdempotentPerPair(t *testing.T) {
	existing := activeSchedule(11)

	schedules := new(mocks.MockScheduleStore)
	schedules.On("GetByStudentAndProblem", mock.Anything, int64(7), int64(101)).Return(&existing, nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	sched, err := svc.CreateSchedule(context.Background(), owner, 7, 101)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, sched.ID, "second creation returns the existing schedule")
	schedules.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateSchedule_Validation(t *testing.T) {
	svc := newScheduleService(new(mocks.MockScheduleStore), new(mocks.MockStudyRecordStore))

	_, err := svc.CreateSchedule(context.Background(), owner, 0, 42)
	assertAppCode(t, err, apperrors.ErrCodeValidation)

	_, err = svc.CreateSchedule(context.Background(), owner, 7, -1)
	assertAppCode(t, err, apperrors.ErrCodeValidation)
}

func TestCreateSchedule_Forbidden(t *testing.T) {
	svc := newScheduleService(new(mocks.MockScheduleStore), new(mocks.MockStudyRecordStore))
	otherStudent := models.Actor{ID: 8, Role: models.RoleStudent}

	_, err := svc.CreateSchedule(context.Background(), otherStudent, 7, 42)

	assertAppCode(t, err, apperrors.ErrCodeForbidden)
}

func TestAdjustSchedule(t *testing.T) {
	sched := activeSchedule(1)
	sched.ReviewCount = 2
	sched.IntervalDays = 6
	sched.NextReviewAt = queueNow.AddDate(0, 0, 4)

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Update", mock.Anything, mock.AnythingOfType("models.ReviewSchedule"), int64(3)).Return(nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	updated, err := svc.AdjustSchedule(context.Background(), owner, 1, 14, 2.0)

	require.NoError(t, err)
	assert.Equal(t, 14, updated.IntervalDays)
	assert.Equal(t, 2.0, updated.EaseFactor)
	assert.Equal(t, sched.LastReviewedAt().AddDate(0, 0, 14), updated.NextReviewAt,
		"next review is re-anchored on the last review, not on the adjustment time")
	assert.Equal(t, int64(4), updated.Version)
}

func TestAdjustSchedule_BoundsChecked(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		ease     float64
	}{
		{name: "interval too small", interval: 0, ease: 2.5},
		{name: "interval too large", interval: 400, ease: 2.5},
		{name: "ease below hard minimum", interval: 10, ease: 0.5},
		{name: "ease above hard maximum", interval: 10, ease: 5.5},
	}

	schedules := new(mocks.MockScheduleStore)
	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AdjustSchedule(context.Background(), owner, 1, tt.interval, tt.ease)
			assertAppCode(t, err, apperrors.ErrCodeValidation)
		})
	}
	schedules.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAdjustSchedule_ManualEaseMayLeaveOperatingBand(t *testing.T) {
	sched := activeSchedule(1)

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Update", mock.Anything, mock.Anything, int64(3)).Return(nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	updated, err := svc.AdjustSchedule(context.Background(), owner, 1, 10, 4.0)

	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.EaseFactor, "manual overrides use the hard bounds, not the 1.3-2.5 band")
}

func TestAdjustSchedule_InactiveIsConflict(t *testing.T) {
	sched := activeSchedule(1)
	sched.Status = models.ScheduleArchived

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	_, err := svc.AdjustSchedule(context.Background(), owner, 1, 10, 2.0)

	assertAppCode(t, err, apperrors.ErrCodeConflict)
}

func TestAdjustSchedule_VersionConflict(t *testing.T) {
	sched := activeSchedule(1)

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Update", mock.Anything, mock.Anything, int64(3)).Return(repository.ErrVersionConflict)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	_, err := svc.AdjustSchedule(context.Background(), owner, 1, 10, 2.0)

	assertAppCode(t, err, apperrors.ErrCodeConflict)
}

func TestCompleteSchedule(t *testing.T) {
	sched := activeSchedule(1)

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Update", mock.Anything, mock.MatchedBy(func(s models.ReviewSchedule) bool {
		return s.Status == models.ScheduleCompleted
	}), int64(3)).Return(nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	err := svc.CompleteSchedule(context.Background(), owner, 1)

	require.NoError(t, err)
	schedules.AssertExpectations(t)
}

func TestCompleteSchedule_AlreadyCompleted(t *testing.T) {
	sched := activeSchedule(1)
	sched.Status = models.ScheduleCompleted

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	err := svc.CompleteSchedule(context.Background(), owner, 1)

	assertAppCode(t, err, apperrors.ErrCodeConflict)
}

func TestSoftDeleteSchedule(t *testing.T) {
	sched := activeSchedule(1)

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Update", mock.Anything, mock.MatchedBy(func(s models.ReviewSchedule) bool {
		return s.Status == models.ScheduleSoftDeleted
	}), int64(3)).Return(nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	require.NoError(t, svc.SoftDeleteSchedule(context.Background(), owner, 1))
	schedules.AssertExpectations(t)
}

func TestSoftDeleteSchedule_NotFound(t *testing.T) {
	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(99)).Return(nil, nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	err := svc.SoftDeleteSchedule(context.Background(), owner, 99)

	assertAppCode(t, err, apperrors.ErrCodeNotFound)
}

func TestArchiveSchedule_AnonymizesHistory(t *testing.T) {
	sched := activeSchedule(1)
	sched.ReviewCount = 5

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Update", mock.Anything, mock.MatchedBy(func(s models.ReviewSchedule) bool {
		return s.Status == models.ScheduleArchived
	}), int64(3)).Return(nil)

	records := new(mocks.MockStudyRecordStore)
	records.On("AnonymizeByStudentAndProblem", mock.Anything, sched.StudentID, sched.ProblemID).Return(nil)

	svc := newScheduleService(schedules, records)

	require.NoError(t, svc.ArchiveSchedule(context.Background(), owner, 1))
	records.AssertExpectations(t)
}

func TestArchiveSchedule_Twice(t *testing.T) {
	sched := activeSchedule(1)
	sched.Status = models.ScheduleArchived

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	err := svc.ArchiveSchedule(context.Background(), owner, 1)

	assertAppCode(t, err, apperrors.ErrCodeConflict)
}

func TestHardDeleteSchedule_UnreviewedItem(t *testing.T) {
	sched := activeSchedule(1)

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Delete", mock.Anything, int64(1)).Return(nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	require.NoError(t, svc.HardDeleteSchedule(context.Background(), owner, 1))
	schedules.AssertExpectations(t)
}

func TestHardDeleteSchedule_ReviewedItemMustBeArchivedFirst(t *testing.T) {
	sched := activeSchedule(1)
	sched.ReviewCount = 3

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	err := svc.HardDeleteSchedule(context.Background(), owner, 1)

	assertAppCode(t, err, apperrors.ErrCodeConflict)
	schedules.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestHardDeleteSchedule_ArchivedItemIsDeletable(t *testing.T) {
	sched := activeSchedule(1)
	sched.ReviewCount = 3
	sched.Status = models.ScheduleArchived

	schedules := new(mocks.MockScheduleStore)
	schedules.On("Get", mock.Anything, int64(1)).Return(&sched, nil)
	schedules.On("Delete", mock.Anything, int64(1)).Return(nil)

	svc := newScheduleService(schedules, new(mocks.MockStudyRecordStore))

	require.NoError(t, svc.HardDeleteSchedule(context.Background(), owner, 1))
}
