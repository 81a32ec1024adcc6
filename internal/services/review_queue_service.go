package services

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/errors"
	"github.com/studypulse/studypulse/internal/events"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
	"github.com/studypulse/studypulse/internal/srs"
)

// NotificationScheduler is the slice of the notification subsystem the
// review queue needs: turning a rescheduled review into a future
// reminder. Failures here never fail the review itself.
type NotificationScheduler interface {
	ScheduleReviewDue(ctx context.Context, s models.ReviewSchedule) error
}

// ReviewQueueService builds prioritized review queues and applies
// feedback submissions.
type ReviewQueueService interface {
	GetDueToday(ctx context.Context, studentID int64) ([]models.DueReview, error)
	GetOverdue(ctx context.Context, studentID int64) ([]models.OverdueReview, error)
	MarkReviewCompleted(ctx context.Context, actor models.Actor, scheduleID int64, feedback models.ReviewFeedback, responseTimeMs *int64, answerContent string) (*models.CompletionResult, error)
	GetStatistics(ctx context.Context, studentID int64) (*models.StudyStatistics, error)
}

type reviewQueueService struct {
	schedules repository.ReviewScheduleStore
	records   repository.StudyRecordStore
	notifier  NotificationScheduler
	clock     clock.Clock

	// Per-schedule locks serialize concurrent feedback submissions for
	// the same schedule within this process; the version check on the
	// store covers cross-process races.
	locks sync.Map // scheduleID -> *sync.Mutex
}

// NewReviewQueueService creates a new ReviewQueueService. notifier may
// be nil when reminder scheduling is disabled.
func NewReviewQueueService(schedules repository.ReviewScheduleStore, records repository.StudyRecordStore, notifier NotificationScheduler, clk clock.Clock) ReviewQueueService {
	return &reviewQueueService{
		schedules: schedules,
		records:   records,
		notifier:  notifier,
		clock:     clk,
	}
}

func (s *reviewQueueService) lockSchedule(id int64) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *reviewQueueService) GetDueToday(ctx context.Context, studentID int64) ([]models.DueReview, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting due reviews: student_id=%d", studentID)

	now := s.clock.Now()
	schedules, err := s.schedules.FindDueByStudent(ctx, studentID, endOfDay(now))
	if err != nil {
		log.Error("failed to get due schedules: %v", err)
		return nil, errors.NewInternalError(err)
	}

	out := make([]models.DueReview, 0, len(schedules))
	for _, sched := range schedules {
		out = append(out, models.DueReview{
			Schedule: sched,
			Overdue:  sched.IsOverdue(now),
			Level:    sched.Level(),
		})
	}

	// Overdue first, longest overdue ahead, then harder items before
	// easier ones.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Overdue != b.Overdue {
			return a.Overdue
		}
		if a.Overdue && !a.Schedule.NextReviewAt.Equal(b.Schedule.NextReviewAt) {
			return a.Schedule.NextReviewAt.Before(b.Schedule.NextReviewAt)
		}
		if a.Schedule.EaseFactor != b.Schedule.EaseFactor {
			return a.Schedule.EaseFactor < b.Schedule.EaseFactor
		}
		return a.Schedule.ConsecutiveFailures > b.Schedule.ConsecutiveFailures
	})

	log.Debug("found %d due reviews", len(out))
	return out, nil
}

// Overdue scoring weights per the queue policy: duration contributes
// 1-4, consecutive failures 0-2, item difficulty 0-2.
func overdueScore(sched models.ReviewSchedule, now time.Time) int {
	hours := int(sched.OverdueDuration(now).Hours())

	score := 0
	switch {
	case hours < 24:
		score += 1
	case hours < 72:
		score += 2
	case hours < 168:
		score += 3
	default:
		score += 4
	}

	switch {
	case sched.ConsecutiveFailures == 0:
	case sched.ConsecutiveFailures < 3:
		score += 1
	default:
		score += 2
	}

	switch {
	case sched.EaseFactor >= 2.3:
	case sched.EaseFactor >= 1.7:
		score += 1
	default:
		score += 2
	}
	return score
}

func overduePriority(score int) models.OverduePriority {
	switch {
	case score >= 6:
		return models.OverdueCritical
	case score >= 4:
		return models.OverdueHigh
	case score >= 2:
		return models.OverdueMedium
	default:
		return models.OverdueLow
	}
}

func (s *reviewQueueService) GetOverdue(ctx context.Context, studentID int64) ([]models.OverdueReview, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting overdue reviews: student_id=%d", studentID)

	now := s.clock.Now()
	schedules, err := s.schedules.FindOverdueByStudent(ctx, studentID, now)
	if err != nil {
		log.Error("failed to get overdue schedules: %v", err)
		return nil, errors.NewInternalError(err)
	}

	out := make([]models.OverdueReview, 0, len(schedules))
	for _, sched := range schedules {
		d := sched.OverdueDuration(now)
		score := overdueScore(sched, now)
		out = append(out, models.OverdueReview{
			Schedule:     sched,
			OverdueHours: int(d.Hours()),
			OverdueDays:  int(d.Hours() / 24),
			Priority:     overduePriority(score),
			Score:        score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.OverdueHours != b.OverdueHours {
			return a.OverdueHours > b.OverdueHours
		}
		if a.Schedule.ConsecutiveFailures != b.Schedule.ConsecutiveFailures {
			return a.Schedule.ConsecutiveFailures > b.Schedule.ConsecutiveFailures
		}
		return a.Schedule.EaseFactor < b.Schedule.EaseFactor
	})

	log.Debug("found %d overdue reviews", len(out))
	return out, nil
}

func (s *reviewQueueService) MarkReviewCompleted(ctx context.Context, actor models.Actor, scheduleID int64, feedback models.ReviewFeedback, responseTimeMs *int64, answerContent string) (*models.CompletionResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("marking review completed: schedule_id=%d, feedback=%s", scheduleID, feedback)

	if !feedback.Valid() {
		return nil, errors.NewValidationError("feedback", "must be one of again, hard, good, easy")
	}
	if responseTimeMs != nil && *responseTimeMs < 0 {
		return nil, errors.NewValidationError("response_time_ms", "must not be negative")
	}

	unlock := s.lockSchedule(scheduleID)
	defer unlock()

	sched, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		log.Error("failed to get schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if sched == nil || sched.Status == models.ScheduleSoftDeleted {
		return nil, errors.NewNotFoundError("schedule", scheduleID)
	}
	if !actor.CanActOn(sched.StudentID) {
		return nil, errors.NewForbiddenError("schedule belongs to another student")
	}
	if !sched.IsReviewable() {
		return nil, errors.NewConflictError("schedule is no longer active")
	}

	now := s.clock.Now()
	result := srs.Next(srs.StateOf(*sched), feedback, now)

	updated := *sched
	updated.IntervalDays = result.IntervalDays
	updated.EaseFactor = result.EaseFactor
	updated.ConsecutiveFailures = result.ConsecutiveFailures
	updated.NextReviewAt = result.NextReviewAt
	updated.ReviewCount++
	updated.UpdatedAt = now
	if err := updated.Validate(); err != nil {
		log.Error("computed schedule state invalid: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ev := events.NewReviewCompleted(updated, feedback, responseTimeMs, answerContent, now)

	// Schedule write and outbox append commit together; the completion
	// signal exists only if the new schedule state does.
	if err := s.schedules.UpdateWithEvent(ctx, updated, sched.Version, ev); err != nil {
		if err == repository.ErrVersionConflict {
			return nil, errors.NewConflictError("schedule was modified concurrently, retry")
		}
		log.Error("failed to save schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	updated.Version = sched.Version + 1

	log.Debug("review applied: interval=%d days, ease=%.2f, failures=%d",
		updated.IntervalDays, updated.EaseFactor, updated.ConsecutiveFailures)

	if s.notifier != nil {
		if err := s.notifier.ScheduleReviewDue(ctx, updated); err != nil {
			// Reminders are best-effort; the review already committed.
			log.Warn("failed to schedule review reminder: %v", err)
		}
	}

	return &models.CompletionResult{
		EventID:          ev.EventID,
		Schedule:         updated,
		PreviousInterval: sched.IntervalDays,
		NextReviewAt:     updated.NextReviewAt,
	}, nil
}

// retention estimates the probability the student still recalls an item,
// decaying exponentially in elapsed time scaled by interval and ease.
func retention(sched models.ReviewSchedule, now time.Time) float64 {
	elapsed := now.Sub(sched.LastReviewedAt()).Hours() / 24
	if elapsed <= 0 {
		return 1
	}
	r := math.Exp(-elapsed / (float64(sched.IntervalDays) * sched.EaseFactor))
	if r < 0 {
		return 0
	}
	return r
}

func (s *reviewQueueService) GetStatistics(ctx context.Context, studentID int64) (*models.StudyStatistics, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting study statistics: student_id=%d", studentID)

	now := s.clock.Now()
	schedules, err := s.schedules.FindActiveByStudent(ctx, studentID)
	if err != nil {
		log.Error("failed to get schedules: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stats := models.StudyStatistics{TotalScheduled: len(schedules)}
	endToday := endOfDay(now)
	retentionSum := 0.0
	for _, sched := range schedules {
		if !sched.NextReviewAt.After(endToday) {
			stats.DueToday++
		}
		if sched.IsOverdue(now) {
			stats.Overdue++
		}
		retentionSum += retention(sched, now)
	}
	if len(schedules) > 0 {
		stats.AverageRetention = retentionSum / float64(len(schedules))
	}

	completed, err := s.records.CountByStudentSince(ctx, studentID, startOfDay(now))
	if err != nil {
		log.Error("failed to count completed reviews: %v", err)
		return nil, errors.NewInternalError(err)
	}
	stats.CompletedToday = completed

	days, err := s.records.ReviewDays(ctx, studentID, now.AddDate(-1, 0, 0))
	if err != nil {
		log.Error("failed to get review days: %v", err)
		return nil, errors.NewInternalError(err)
	}
	stats.StreakDays = streakDays(days, now)

	timeSpent, err := s.records.SumResponseTime(ctx, studentID)
	if err != nil {
		log.Error("failed to sum time spent: %v", err)
		return nil, errors.NewInternalError(err)
	}
	stats.TotalTimeSpentMs = timeSpent

	return &stats, nil
}

// streakDays counts consecutive calendar days with at least one review,
// ending today or yesterday. days must be distinct dates, newest first.
func streakDays(days []string, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	const layout = "2006-01-02"
	cursor := startOfDay(now)
	if days[0] != cursor.Format(layout) {
		cursor = cursor.AddDate(0, 0, -1)
		if days[0] != cursor.Format(layout) {
			return 0
		}
	}
	streak := 0
	for _, d := range days {
		if d != cursor.Format(layout) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
