package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/notify"
	"github.com/studypulse/studypulse/internal/testutil/mocks"
)

func TestScheduleReviewDue(t *testing.T) {
	store := new(mocks.MockNotificationStore)
	sched := models.ReviewSchedule{
		ID:           1,
		StudentID:    7,
		ProblemID:    42,
		NextReviewAt: tickTime.AddDate(0, 0, 3),
	}
	store.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.RecipientID == 7 &&
			n.Type == models.NotificationReviewDue &&
			n.Status == models.StatusPending &&
			n.ScheduledFor.Equal(sched.NextReviewAt) &&
			n.ID != ""
	})).Return(nil)

	s := notify.NewScheduler(store, clock.NewFake(tickTime))

	require.NoError(t, s.ScheduleReviewDue(context.Background(), sched))
	store.AssertExpectations(t)
}

func TestScheduleOverdueReminder_PriorityMapping(t *testing.T) {
	tests := []struct {
		urgency  models.OverduePriority
		expected models.NotificationPriority
	}{
		{urgency: models.OverdueCritical, expected: models.PriorityCritical},
		{urgency: models.OverdueHigh, expected: models.PriorityHigh},
		{urgency: models.OverdueMedium, expected: models.PriorityMedium},
		{urgency: models.OverdueLow, expected: models.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.urgency), func(t *testing.T) {
			store := new(mocks.MockNotificationStore)
			store.On("HasPendingForRecipient", mock.Anything, int64(7), models.NotificationOverdue).
				Return(false, nil)
			store.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
				return n.Priority == tt.expected && n.ScheduledFor.Equal(tickTime)
			})).Return(nil)

			s := notify.NewScheduler(store, clock.NewFake(tickTime))

			require.NoError(t, s.ScheduleOverdueReminder(context.Background(), 7, 5, tt.urgency))
			store.AssertExpectations(t)
		})
	}
}

func TestScheduleOverdueReminder_Deduplicates(t *testing.T) {
	store := new(mocks.MockNotificationStore)
	store.On("HasPendingForRecipient", mock.Anything, int64(7), models.NotificationOverdue).
		Return(true, nil)

	s := notify.NewScheduler(store, clock.NewFake(tickTime))

	require.NoError(t, s.ScheduleOverdueReminder(context.Background(), 7, 5, models.OverdueHigh))
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestScheduleStreakCelebration_MilestonesOnly(t *testing.T) {
	store := new(mocks.MockNotificationStore)
	s := notify.NewScheduler(store, clock.NewFake(tickTime))

	// Day 6 is not a milestone; nothing is queued.
	require.NoError(t, s.ScheduleStreakCelebration(context.Background(), 7, 6))
	store.AssertNotCalled(t, "HasPendingForRecipient", mock.Anything, mock.Anything, mock.Anything)

	store.On("HasPendingForRecipient", mock.Anything, int64(7), models.NotificationStreak).
		Return(false, nil)
	store.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationStreak && n.Priority == models.PriorityLow
	})).Return(nil)

	require.NoError(t, s.ScheduleStreakCelebration(context.Background(), 7, 7))
	store.AssertExpectations(t)
}

func TestScheduleDailySummary(t *testing.T) {
	at := tickTime.Add(6 * time.Hour)
	store := new(mocks.MockNotificationStore)
	store.On("HasPendingForRecipient", mock.Anything, int64(7), models.NotificationDailySummary).
		Return(false, nil)
	store.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationDailySummary &&
			n.Method == models.MethodEmail &&
			n.ScheduledFor.Equal(at)
	})).Return(nil)

	s := notify.NewScheduler(store, clock.NewFake(tickTime))

	require.NoError(t, s.ScheduleDailySummary(context.Background(), 7, 9, at))
	store.AssertExpectations(t)
}

func TestScheduler_InvalidNotificationRejected(t *testing.T) {
	store := new(mocks.MockNotificationStore)
	s := notify.NewScheduler(store, clock.NewFake(tickTime))

	err := s.ScheduleAchievement(context.Background(), 0, "title", "body")

	assert.Error(t, err, "recipient id must be positive")
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
