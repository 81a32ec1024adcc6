package models

import "time"

// Role is the caller's role for ownership checks.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   int64
	Role Role
}

// CanActOn reports whether the actor may mutate a schedule owned by the
// given student. Teachers and admins act on behalf of students.
func (a Actor) CanActOn(studentID int64) bool {
	return a.ID == studentID || a.Role == RoleTeacher || a.Role == RoleAdmin
}

// OverduePriority buckets an overdue review by urgency.
type OverduePriority string

const (
	OverdueCritical OverduePriority = "critical"
	OverdueHigh     OverduePriority = "high"
	OverdueMedium   OverduePriority = "medium"
	OverdueLow      OverduePriority = "low"
)

var overdueRank = map[OverduePriority]int{
	OverdueLow:      0,
	OverdueMedium:   1,
	OverdueHigh:     2,
	OverdueCritical: 3,
}

// MoreUrgentThan orders priorities from low to critical.
func (p OverduePriority) MoreUrgentThan(other OverduePriority) bool {
	return overdueRank[p] > overdueRank[other]
}

// DueReview is a queue entry for a review due today.
type DueReview struct {
	Schedule ReviewSchedule  `json:"schedule"`
	Overdue  bool            `json:"overdue"`
	Level    DifficultyLevel `json:"level"`
}

// OverdueReview annotates an overdue schedule with how late it is and a
// computed urgency.
type OverdueReview struct {
	Schedule     ReviewSchedule  `json:"schedule"`
	OverdueHours int             `json:"overdue_hours"`
	OverdueDays  int             `json:"overdue_days"`
	Priority     OverduePriority `json:"priority"`
	Score        int             `json:"score"`
}

// CompletionResult is returned after feedback is applied to a schedule.
type CompletionResult struct {
	EventID          string         `json:"event_id"`
	Schedule         ReviewSchedule `json:"schedule"`
	PreviousInterval int            `json:"previous_interval"`
	NextReviewAt     time.Time      `json:"next_review_at"`
}

// StudyStatistics aggregates a student's review activity.
type StudyStatistics struct {
	TotalScheduled   int     `json:"total_scheduled"`
	DueToday         int     `json:"due_today"`
	Overdue          int     `json:"overdue"`
	CompletedToday   int     `json:"completed_today"`
	StreakDays       int     `json:"streak_days"`
	AverageRetention float64 `json:"average_retention"`
	TotalTimeSpentMs int64   `json:"total_time_spent_ms"`
}

// QueueStatus reports notification queue depth after a processing tick.
type QueueStatus struct {
	Pending               int     `json:"pending"`
	EstimatedDrainSeconds float64 `json:"estimated_drain_seconds"`
}
