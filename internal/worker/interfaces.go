package worker

import (
	"context"

	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/notify"
)

// Job dependencies are declared as small interfaces here instead of
// importing the owning packages' concrete types, keeping jobs easy to
// test and the worker package free of service wiring.

// RecordProjector drains the review-event outbox into study records.
type RecordProjector interface {
	Drain(ctx context.Context, limit int) (int, error)
}

// NotificationProcessor runs one delivery tick over the queue.
type NotificationProcessor interface {
	ProcessBatch(ctx context.Context, opts notify.BatchOptions) (*notify.BatchResult, error)
}

// OverdueLister reports a student's overdue reviews with urgency scores.
type OverdueLister interface {
	GetOverdue(ctx context.Context, studentID int64) ([]models.OverdueReview, error)
}

// OverdueNotifier queues an overdue reminder for a student.
type OverdueNotifier interface {
	ScheduleOverdueReminder(ctx context.Context, studentID int64, overdueCount int, urgency models.OverduePriority) error
}
