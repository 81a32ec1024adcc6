package repository

import (
	"context"
	"errors"
	"time"

	"github.com/studypulse/studypulse/internal/events"
	"github.com/studypulse/studypulse/internal/models"
)

// ErrVersionConflict is returned by conditional schedule updates when the
// stored version no longer matches the caller's snapshot.
var ErrVersionConflict = errors.New("schedule version conflict")

// ReviewScheduleStore persists one schedule per (student, problem).
// Updates are conditional on the version read by the caller.
type ReviewScheduleStore interface {
	Insert(ctx context.Context, s models.ReviewSchedule) (int64, error)
	Get(ctx context.Context, id int64) (*models.ReviewSchedule, error)
	GetByStudentAndProblem(ctx context.Context, studentID, problemID int64) (*models.ReviewSchedule, error)
	FindActiveByStudent(ctx context.Context, studentID int64) ([]models.ReviewSchedule, error)
	FindDueByStudent(ctx context.Context, studentID int64, before time.Time) ([]models.ReviewSchedule, error)
	FindOverdueByStudent(ctx context.Context, studentID int64, now time.Time) ([]models.ReviewSchedule, error)
	// ListStudentsWithOverdue returns the distinct students holding at
	// least one active schedule past due at the given instant.
	ListStudentsWithOverdue(ctx context.Context, now time.Time) ([]int64, error)
	// Update applies the snapshot if the stored version equals
	// expectedVersion, bumping the version; otherwise ErrVersionConflict.
	Update(ctx context.Context, s models.ReviewSchedule, expectedVersion int64) error
	// UpdateWithEvent additionally appends the completion event to the
	// outbox in the same transaction as the schedule write.
	UpdateWithEvent(ctx context.Context, s models.ReviewSchedule, expectedVersion int64, ev events.ReviewCompleted) error
	Delete(ctx context.Context, id int64) error
}

// ReviewEventStore drains the completion-event outbox.
type ReviewEventStore interface {
	FindUnprocessed(ctx context.Context, limit int) ([]events.ReviewCompleted, error)
	MarkProcessed(ctx context.Context, eventID string) error
}

// StudyRecordStore is append-only storage for review audit records.
type StudyRecordStore interface {
	// Insert stores the record unless one with the same event id already
	// exists; it reports whether a row was written.
	Insert(ctx context.Context, r models.StudyRecord) (bool, error)
	FindByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudyRecord, error)
	FindByStudentAndProblem(ctx context.Context, studentID, problemID int64, limit int) ([]models.StudyRecord, error)
	CountByStudentSince(ctx context.Context, studentID int64, since time.Time) (int, error)
	// ReviewDays returns the distinct UTC dates ("2006-01-02") on which
	// the student completed at least one review, newest first.
	ReviewDays(ctx context.Context, studentID int64, since time.Time) ([]string, error)
	SumResponseTime(ctx context.Context, studentID int64) (int64, error)
	AnonymizeByStudentAndProblem(ctx context.Context, studentID, problemID int64) error
}

// NotificationStore persists reminder deliveries.
type NotificationStore interface {
	Insert(ctx context.Context, n models.Notification) error
	Get(ctx context.Context, id string) (*models.Notification, error)
	FindPending(ctx context.Context, f models.NotificationFilter, scheduledBefore time.Time, limit int) ([]models.Notification, error)
	CountPending(ctx context.Context, scheduledBefore time.Time) (int, error)
	// Claim atomically moves a pending notification to processing and
	// reports whether this caller won the claim.
	Claim(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, n models.Notification) error
	FindByRecipient(ctx context.Context, recipientID int64, limit int) ([]models.Notification, error)
	HasPendingForRecipient(ctx context.Context, recipientID int64, t models.NotificationType) (bool, error)
}

// NotificationSettingsStore reads per-student delivery preferences. The
// settings subsystem owns writes.
type NotificationSettingsStore interface {
	// GetByStudent returns nil when the student has no stored settings.
	GetByStudent(ctx context.Context, studentID int64) (*models.NotificationSettings, error)
}
