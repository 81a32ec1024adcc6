package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
)

// streakMilestones are the run lengths worth celebrating.
var streakMilestones = map[int]bool{3: true, 7: true, 14: true, 30: true, 100: true}

// Scheduler creates pending notifications from scheduling state changes.
// It never sends anything itself; the queue processor picks the rows up
// on its own cadence.
type Scheduler struct {
	notifications repository.NotificationStore
	clock         clock.Clock
}

// NewScheduler creates a notification Scheduler.
func NewScheduler(notifications repository.NotificationStore, clk clock.Clock) *Scheduler {
	return &Scheduler{notifications: notifications, clock: clk}
}

func (s *Scheduler) create(ctx context.Context, n models.Notification) error {
	now := s.clock.Now()
	n.ID = uuid.NewString()
	n.Status = models.StatusPending
	n.CreatedAt = now
	n.UpdatedAt = now
	if err := n.Validate(); err != nil {
		return err
	}
	return s.notifications.Insert(ctx, n)
}

// ScheduleReviewDue queues a reminder for the schedule's next review
// time.
func (s *Scheduler) ScheduleReviewDue(ctx context.Context, sched models.ReviewSchedule) error {
	log := logger.FromContext(ctx).WithPrefix("notify")
	log.Debug("scheduling review-due reminder: schedule_id=%d, at=%s", sched.ID, sched.NextReviewAt.Format(time.RFC3339))

	return s.create(ctx, models.Notification{
		RecipientID:  sched.StudentID,
		Type:         models.NotificationReviewDue,
		Priority:     models.PriorityMedium,
		Method:       models.MethodPush,
		Title:        "Review due",
		Body:         fmt.Sprintf("Problem %d is ready for review", sched.ProblemID),
		ScheduledFor: sched.NextReviewAt,
	})
}

// ScheduleOverdueReminder queues an immediate reminder about overdue
// reviews. At most one overdue reminder is pending per student.
func (s *Scheduler) ScheduleOverdueReminder(ctx context.Context, studentID int64, overdueCount int, urgency models.OverduePriority) error {
	log := logger.FromContext(ctx).WithPrefix("notify")

	exists, err := s.notifications.HasPendingForRecipient(ctx, studentID, models.NotificationOverdue)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("overdue reminder already pending: student_id=%d", studentID)
		return nil
	}

	priority := models.PriorityMedium
	switch urgency {
	case models.OverdueCritical:
		priority = models.PriorityCritical
	case models.OverdueHigh:
		priority = models.PriorityHigh
	case models.OverdueLow:
		priority = models.PriorityLow
	}

	return s.create(ctx, models.Notification{
		RecipientID:  studentID,
		Type:         models.NotificationOverdue,
		Priority:     priority,
		Method:       models.MethodPush,
		Title:        "Overdue reviews",
		Body:         fmt.Sprintf("You have %d overdue reviews waiting", overdueCount),
		ScheduledFor: s.clock.Now(),
	})
}

// ScheduleStreakCelebration queues a streak notification when the run
// length hits a milestone.
func (s *Scheduler) ScheduleStreakCelebration(ctx context.Context, studentID int64, streakDays int) error {
	if !streakMilestones[streakDays] {
		return nil
	}
	exists, err := s.notifications.HasPendingForRecipient(ctx, studentID, models.NotificationStreak)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.create(ctx, models.Notification{
		RecipientID:  studentID,
		Type:         models.NotificationStreak,
		Priority:     models.PriorityLow,
		Method:       models.MethodInApp,
		Title:        "Streak!",
		Body:         fmt.Sprintf("%d days of reviews in a row, keep it up", streakDays),
		ScheduledFor: s.clock.Now(),
	})
}

// ScheduleDailySummary queues the once-a-day digest for the given time.
func (s *Scheduler) ScheduleDailySummary(ctx context.Context, studentID int64, dueCount int, at time.Time) error {
	exists, err := s.notifications.HasPendingForRecipient(ctx, studentID, models.NotificationDailySummary)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.create(ctx, models.Notification{
		RecipientID:  studentID,
		Type:         models.NotificationDailySummary,
		Priority:     models.PriorityLow,
		Method:       models.MethodEmail,
		Title:        "Today's reviews",
		Body:         fmt.Sprintf("%d reviews are waiting for you today", dueCount),
		ScheduledFor: at,
	})
}

// ScheduleAchievement queues an achievement notification.
func (s *Scheduler) ScheduleAchievement(ctx context.Context, studentID int64, title, body string) error {
	return s.create(ctx, models.Notification{
		RecipientID:  studentID,
		Type:         models.NotificationAchievement,
		Priority:     models.PriorityLow,
		Method:       models.MethodInApp,
		Title:        title,
		Body:         body,
		ScheduledFor: s.clock.Now(),
	})
}
