package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
	"github.com/studypulse/studypulse/internal/repository/sqlite"
	"github.com/studypulse/studypulse/internal/testutil"
)

func insertNotification(t *testing.T, store repository.NotificationStore, id string, mutate func(*models.Notification)) models.Notification {
	t.Helper()
	n := models.Notification{
		ID:           id,
		RecipientID:  7,
		Type:         models.NotificationReviewDue,
		Priority:     models.PriorityMedium,
		Method:       models.MethodPush,
		Title:        "Review due",
		Body:         "Problem 42 is ready for review",
		ScheduledFor: repoNow.Add(-time.Minute),
		Status:       models.StatusPending,
		CreatedAt:    repoNow,
		UpdatedAt:    repoNow,
	}
	if mutate != nil {
		mutate(&n)
	}
	require.NoError(t, store.Insert(context.Background(), n))
	return n
}

func TestNotificationRepository_InsertAndGet(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertNotification(t, store, "n-1", nil)

	got, err := store.Get(ctx, "n-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.RecipientID)
	assert.Equal(t, models.NotificationReviewDue, got.Type)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.SentAt)

	missing, err := store.Get(ctx, "n-404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNotificationRepository_FindPending(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertNotification(t, store, "n-due", nil)
	insertNotification(t, store, "n-future", func(n *models.Notification) {
		n.ScheduledFor = repoNow.Add(time.Hour)
	})
	insertNotification(t, store, "n-sent", func(n *models.Notification) {
		n.Status = models.StatusSent
	})

	got, err := store.FindPending(ctx, models.NotificationFilter{}, repoNow, 10)
	require.NoError(t, err)
	require.Len(t, got, 1, "future and already-sent rows stay out of the batch")
	assert.Equal(t, "n-due", got[0].ID)
}

func TestNotificationRepository_FindPendingFilters(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertNotification(t, store, "n-push", nil)
	insertNotification(t, store, "n-email-high", func(n *models.Notification) {
		n.Method = models.MethodEmail
		n.Priority = models.PriorityHigh
	})

	byMethod, err := store.FindPending(ctx, models.NotificationFilter{Method: models.MethodEmail}, repoNow, 10)
	require.NoError(t, err)
	require.Len(t, byMethod, 1)
	assert.Equal(t, "n-email-high", byMethod[0].ID)

	byPriority, err := store.FindPending(ctx, models.NotificationFilter{Priority: models.PriorityMedium}, repoNow, 10)
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	assert.Equal(t, "n-push", byPriority[0].ID)
}

func TestNotificationRepository_FindPendingOrderAndLimit(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		offset := time.Duration(i+1) * time.Minute
		insertNotification(t, store, fmt.Sprintf("n-%d", i), func(n *models.Notification) {
			n.ScheduledFor = repoNow.Add(-offset)
		})
	}

	got, err := store.FindPending(ctx, models.NotificationFilter{}, repoNow, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n-2", got[0].ID, "oldest scheduled first")
	assert.Equal(t, "n-1", got[1].ID)
}

func TestNotificationRepository_ClaimIsExclusive(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertNotification(t, store, "n-1", nil)

	claimed, err := store.Claim(ctx, "n-1")
	require.NoError(t, err)
	assert.True(t, claimed)

	again, err := store.Claim(ctx, "n-1")
	require.NoError(t, err)
	assert.False(t, again, "a claimed notification cannot be claimed twice")

	got, err := store.Get(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
}

func TestNotificationRepository_UpdateRoundTrip(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	n := insertNotification(t, store, "n-1", nil)

	sent := n.MarkSent(repoNow)
	require.NoError(t, store.Update(ctx, sent))

	got, err := store.Get(ctx, "n-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, got.Status)
	require.NotNil(t, got.SentAt)
	assert.WithinDuration(t, repoNow, *got.SentAt, time.Second)
}

func TestNotificationRepository_HasPendingForRecipient(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertNotification(t, store, "n-1", func(n *models.Notification) {
		n.Type = models.NotificationOverdue
	})

	exists, err := store.HasPendingForRecipient(ctx, 7, models.NotificationOverdue)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.HasPendingForRecipient(ctx, 7, models.NotificationStreak)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.HasPendingForRecipient(ctx, 8, models.NotificationOverdue)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNotificationRepository_FindByRecipient(t *testing.T) {
	store := sqlite.NewNotificationRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertNotification(t, store, "n-1", nil)
	insertNotification(t, store, "n-2", func(n *models.Notification) {
		n.CreatedAt = repoNow.Add(time.Minute)
	})
	insertNotification(t, store, "n-other", func(n *models.Notification) {
		n.RecipientID = 8
	})

	got, err := store.FindByRecipient(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n-2", got[0].ID, "newest first")
}

func TestSettingsRepository_GetByStudent(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := sqlite.NewSettingsRepository(db)
	ctx := context.Background()

	missing, err := store.GetByStudent(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, missing, "students without stored preferences return nil")

	_, err = db.ExecContext(ctx, `
INSERT INTO notification_settings (student_id, streak_enabled, quiet_hours_start, quiet_hours_end, timezone)
VALUES (7, 0, '22:00', '07:00', 'America/Sao_Paulo')`)
	require.NoError(t, err)

	got, err := store.GetByStudent(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.ReviewDueEnabled)
	assert.False(t, got.StreakEnabled)
	assert.Equal(t, "22:00", got.QuietHoursStart)
	assert.Equal(t, "America/Sao_Paulo", got.Timezone)
}
