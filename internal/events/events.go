// Package events defines the domain events exchanged between the
// scheduling write path and its asynchronous consumers. Events are
// persisted in an outbox within the same transaction as the state change
// they describe, giving at-least-once delivery; consumers must be
// idempotent keyed by EventID.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/studypulse/internal/models"
)

// ReviewCompleted is raised when feedback has been applied to a schedule.
// It carries everything the study-record projector needs, so the
// projector never re-reads the schedule.
type ReviewCompleted struct {
	EventID        string                `json:"event_id"`
	ScheduleID     int64                 `json:"schedule_id"`
	StudentID      int64                 `json:"student_id"`
	ProblemID      int64                 `json:"problem_id"`
	Feedback       models.ReviewFeedback `json:"feedback"`
	IsCorrect      bool                  `json:"is_correct"`
	ResponseTimeMs *int64                `json:"response_time_ms,omitempty"`
	AnswerContent  string                `json:"answer_content,omitempty"`
	OccurredAt     time.Time             `json:"occurred_at"`
}

// NewReviewCompleted builds the event for one applied review with a
// fresh stable identity.
func NewReviewCompleted(schedule models.ReviewSchedule, feedback models.ReviewFeedback, responseTimeMs *int64, answerContent string, now time.Time) ReviewCompleted {
	return ReviewCompleted{
		EventID:        uuid.NewString(),
		ScheduleID:     schedule.ID,
		StudentID:      schedule.StudentID,
		ProblemID:      schedule.ProblemID,
		Feedback:       feedback,
		IsCorrect:      feedback.IsCorrect(),
		ResponseTimeMs: responseTimeMs,
		AnswerContent:  answerContent,
		OccurredAt:     now,
	}
}

// Record converts the event into the immutable study record it projects
// to.
func (e ReviewCompleted) Record() models.StudyRecord {
	return models.StudyRecord{
		EventID:        e.EventID,
		StudentID:      e.StudentID,
		ProblemID:      e.ProblemID,
		Feedback:       e.Feedback,
		IsCorrect:      e.IsCorrect,
		ResponseTimeMs: e.ResponseTimeMs,
		AnswerContent:  e.AnswerContent,
		CreatedAt:      e.OccurredAt,
	}
}
