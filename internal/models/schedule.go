package models

import (
	"fmt"
	"time"
)

// Scheduling bounds. Interval and ease factor must stay inside the hard
// bounds after every transition; the calculator additionally keeps
// automatic ease adjustments inside the narrower operating band.
const (
	MinIntervalDays = 1
	MaxIntervalDays = 365

	MinEaseFactor     = 1.0
	MaxEaseFactor     = 5.0
	DefaultEaseFactor = 2.5

	// Operating band for calculator-driven ease changes.
	MinAutoEaseFactor = 1.3
	MaxAutoEaseFactor = 2.5
)

// ScheduleStatus is the lifecycle state of a review schedule.
type ScheduleStatus string

const (
	ScheduleActive      ScheduleStatus = "active"
	ScheduleCompleted   ScheduleStatus = "completed"
	ScheduleSoftDeleted ScheduleStatus = "soft_deleted"
	ScheduleArchived    ScheduleStatus = "archived"
)

// DifficultyLevel is the student-facing level derived from schedule state.
type DifficultyLevel string

const (
	LevelBeginner     DifficultyLevel = "beginner"
	LevelIntermediate DifficultyLevel = "intermediate"
	LevelAdvanced     DifficultyLevel = "advanced"
)

// ReviewSchedule tracks when a student should next review a problem.
// One row exists per (student, problem) pair. Version supports
// compare-and-swap updates at the storage layer.
type ReviewSchedule struct {
	ID                  int64          `json:"id"`
	StudentID           int64          `json:"student_id"`
	ProblemID           int64          `json:"problem_id"`
	IntervalDays        int            `json:"interval_days"`
	EaseFactor          float64        `json:"ease_factor"`
	NextReviewAt        time.Time      `json:"next_review_at"`
	ReviewCount         int            `json:"review_count"`
	ConsecutiveFailures int            `json:"consecutive_failures"`
	Status              ScheduleStatus `json:"status"`
	Version             int64          `json:"version"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// NewReviewSchedule returns the initial schedule for a problem never
// reviewed before: one day out at the default ease.
func NewReviewSchedule(studentID, problemID int64, now time.Time) ReviewSchedule {
	return ReviewSchedule{
		StudentID:    studentID,
		ProblemID:    problemID,
		IntervalDays: MinIntervalDays,
		EaseFactor:   DefaultEaseFactor,
		NextReviewAt: now.AddDate(0, 0, 1),
		Status:       ScheduleActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks the schedule invariants.
func (s ReviewSchedule) Validate() error {
	if s.StudentID <= 0 {
		return fmt.Errorf("student id must be positive, got %d", s.StudentID)
	}
	if s.ProblemID <= 0 {
		return fmt.Errorf("problem id must be positive, got %d", s.ProblemID)
	}
	if s.IntervalDays < MinIntervalDays || s.IntervalDays > MaxIntervalDays {
		return fmt.Errorf("interval %d outside [%d, %d]", s.IntervalDays, MinIntervalDays, MaxIntervalDays)
	}
	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return fmt.Errorf("ease factor %.2f outside [%.1f, %.1f]", s.EaseFactor, MinEaseFactor, MaxEaseFactor)
	}
	if s.ReviewCount < 0 {
		return fmt.Errorf("review count must not be negative, got %d", s.ReviewCount)
	}
	if s.ConsecutiveFailures < 0 {
		return fmt.Errorf("consecutive failures must not be negative, got %d", s.ConsecutiveFailures)
	}
	switch s.Status {
	case ScheduleActive, ScheduleCompleted, ScheduleSoftDeleted, ScheduleArchived:
	default:
		return fmt.Errorf("unknown schedule status %q", s.Status)
	}
	return nil
}

// IsReviewable reports whether feedback may still be submitted.
func (s ReviewSchedule) IsReviewable() bool {
	return s.Status == ScheduleActive
}

// IsOverdue reports whether the scheduled review time has passed.
func (s ReviewSchedule) IsOverdue(now time.Time) bool {
	return s.Status == ScheduleActive && now.After(s.NextReviewAt)
}

// OverdueDuration returns how far past due the schedule is, or zero.
func (s ReviewSchedule) OverdueDuration(now time.Time) time.Duration {
	if !now.After(s.NextReviewAt) {
		return 0
	}
	return now.Sub(s.NextReviewAt)
}

// LastReviewedAt derives the previous review time from the current
// interval. For a fresh schedule this is the creation time.
func (s ReviewSchedule) LastReviewedAt() time.Time {
	if s.ReviewCount == 0 {
		return s.CreatedAt
	}
	return s.NextReviewAt.AddDate(0, 0, -s.IntervalDays)
}

// Level classifies the item for the student from the ease factor.
// Higher ease means the item behaves like advanced material for them.
func (s ReviewSchedule) Level() DifficultyLevel {
	switch {
	case s.EaseFactor >= 2.3:
		return LevelAdvanced
	case s.EaseFactor >= 1.8:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// MarkDeleted returns a soft-deleted snapshot. History is retained for
// statistics; the schedule leaves all review queues.
func (s ReviewSchedule) MarkDeleted(now time.Time) (ReviewSchedule, error) {
	if s.Status != ScheduleActive {
		return s, fmt.Errorf("cannot soft-delete schedule in status %q", s.Status)
	}
	s.Status = ScheduleSoftDeleted
	s.UpdatedAt = now
	return s, nil
}

// Complete returns a completed snapshot. Completed schedules accept no
// further feedback.
func (s ReviewSchedule) Complete(now time.Time) (ReviewSchedule, error) {
	if s.Status != ScheduleActive {
		return s, fmt.Errorf("cannot complete schedule in status %q", s.Status)
	}
	s.Status = ScheduleCompleted
	s.UpdatedAt = now
	return s, nil
}

// Archive returns an archived snapshot. Archived schedules are kept for
// aggregate reporting only; associated answer content is anonymized by
// the caller.
func (s ReviewSchedule) Archive(now time.Time) (ReviewSchedule, error) {
	if s.Status == ScheduleArchived {
		return s, fmt.Errorf("schedule already archived")
	}
	s.Status = ScheduleArchived
	s.UpdatedAt = now
	return s, nil
}
