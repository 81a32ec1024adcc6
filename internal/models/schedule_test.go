package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studypulse/studypulse/internal/models"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNewReviewSchedule(t *testing.T) {
	s := models.NewReviewSchedule(1, 42, now)

	assert.Equal(t, 1, s.IntervalDays)
	assert.Equal(t, 2.5, s.EaseFactor)
	assert.Equal(t, now.AddDate(0, 0, 1), s.NextReviewAt)
	assert.Equal(t, models.ScheduleActive, s.Status)
	require.NoError(t, s.Validate())
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ReviewSchedule)
	}{
		{
			name:   "interval too small",
			mutate: func(s *models.ReviewSchedule) { s.IntervalDays = 0 },
		},
		{
			name:   "interval too large",
			mutate: func(s *models.ReviewSchedule) { s.IntervalDays = 366 },
		},
		{
			name:   "ease below hard minimum",
			mutate: func(s *models.ReviewSchedule) { s.EaseFactor = 0.9 },
		},
		{
			name:   "ease above hard maximum",
			mutate: func(s *models.ReviewSchedule) { s.EaseFactor = 5.1 },
		},
		{
			name:   "missing student",
			mutate: func(s *models.ReviewSchedule) { s.StudentID = 0 },
		},
		{
			name:   "unknown status",
			mutate: func(s *models.ReviewSchedule) { s.Status = "paused" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewReviewSchedule(1, 42, now)
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestIsOverdue(t *testing.T) {
	s := models.NewReviewSchedule(1, 42, now)

	assert.False(t, s.IsOverdue(now), "not due yet")
	assert.True(t, s.IsOverdue(now.AddDate(0, 0, 2)))

	s.Status = models.ScheduleCompleted
	assert.False(t, s.IsOverdue(now.AddDate(0, 0, 2)), "inactive schedules are never overdue")
}

func TestLastReviewedAt(t *testing.T) {
	s := models.NewReviewSchedule(1, 42, now)
	assert.Equal(t, now, s.LastReviewedAt(), "fresh schedule falls back to creation time")

	s.ReviewCount = 3
	s.IntervalDays = 10
	s.NextReviewAt = now.AddDate(0, 0, 10)
	assert.Equal(t, now, s.LastReviewedAt())
}

func TestLevel(t *testing.T) {
	s := models.ReviewSchedule{EaseFactor: 2.3}
	assert.Equal(t, models.LevelAdvanced, s.Level())

	s.EaseFactor = 1.9
	assert.Equal(t, models.LevelIntermediate, s.Level())

	s.EaseFactor = 1.5
	assert.Equal(t, models.LevelBeginner, s.Level())
}

func TestTransitions(t *testing.T) {
	s := models.NewReviewSchedule(1, 42, now)

	completed, err := s.Complete(now)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleCompleted, completed.Status)
	assert.False(t, completed.IsReviewable())
	assert.Equal(t, models.ScheduleActive, s.Status, "receiver is unchanged")

	_, err = completed.Complete(now)
	assert.Error(t, err, "completing twice is rejected")

	_, err = completed.MarkDeleted(now)
	assert.Error(t, err, "only active schedules can be soft-deleted")

	archived, err := completed.Archive(now)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleArchived, archived.Status)

	_, err = archived.Archive(now)
	assert.Error(t, err)
}

func TestActorCanActOn(t *testing.T) {
	student := models.Actor{ID: 7, Role: models.RoleStudent}
	teacher := models.Actor{ID: 1, Role: models.RoleTeacher}

	assert.True(t, student.CanActOn(7))
	assert.False(t, student.CanActOn(8))
	assert.True(t, teacher.CanActOn(8), "teachers act on behalf of students")
}

func TestOverduePriorityOrdering(t *testing.T) {
	assert.True(t, models.OverdueCritical.MoreUrgentThan(models.OverdueHigh))
	assert.True(t, models.OverdueHigh.MoreUrgentThan(models.OverdueLow))
	assert.False(t, models.OverdueLow.MoreUrgentThan(models.OverdueLow))
	assert.False(t, models.OverdueMedium.MoreUrgentThan(models.OverdueCritical))
}
