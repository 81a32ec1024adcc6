package models

import (
	"fmt"
	"time"
)

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationReviewDue    NotificationType = "review_due"
	NotificationOverdue      NotificationType = "overdue"
	NotificationStreak       NotificationType = "streak"
	NotificationAchievement  NotificationType = "achievement"
	NotificationDailySummary NotificationType = "daily_summary"
)

// NotificationPriority orders deliveries and controls quiet-hours bypass.
type NotificationPriority string

const (
	PriorityLow      NotificationPriority = "low"
	PriorityMedium   NotificationPriority = "medium"
	PriorityHigh     NotificationPriority = "high"
	PriorityCritical NotificationPriority = "critical"
)

// DeliveryMethod is the transport the external sender should use.
type DeliveryMethod string

const (
	MethodPush  DeliveryMethod = "push"
	MethodEmail DeliveryMethod = "email"
	MethodInApp DeliveryMethod = "in_app"
)

// NotificationStatus is the delivery lifecycle state.
type NotificationStatus string

const (
	StatusPending    NotificationStatus = "pending"
	StatusProcessing NotificationStatus = "processing"
	StatusSent       NotificationStatus = "sent"
	StatusDelivered  NotificationStatus = "delivered"
	StatusFailed     NotificationStatus = "failed"
	StatusCancelled  NotificationStatus = "cancelled"
)

// MaxSendAttempts is the number of delivery attempts before a
// notification is marked permanently failed.
const MaxSendAttempts = 3

// retryBaseDelay doubles on each attempt: 5, 10, 20 minutes.
const retryBaseDelay = 5 * time.Minute

// Notification is a pending or delivered reminder. Only the queue
// processor mutates status, retry count and scheduling.
type Notification struct {
	ID            string               `json:"id"`
	RecipientID   int64                `json:"recipient_id"`
	Type          NotificationType     `json:"type"`
	Priority      NotificationPriority `json:"priority"`
	Method        DeliveryMethod       `json:"delivery_method"`
	Title         string               `json:"title"`
	Body          string               `json:"body"`
	ScheduledFor  time.Time            `json:"scheduled_for"`
	Status        NotificationStatus   `json:"status"`
	RetryCount    int                  `json:"retry_count"`
	FailureReason string               `json:"failure_reason,omitempty"`
	SentAt        *time.Time           `json:"sent_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// NotificationFilter narrows pending-queue fetches. Zero values match
// everything.
type NotificationFilter struct {
	Priority NotificationPriority
	Method   DeliveryMethod
}

// Validate checks the closed enums and required identifiers.
func (n Notification) Validate() error {
	if n.RecipientID <= 0 {
		return fmt.Errorf("recipient id must be positive, got %d", n.RecipientID)
	}
	switch n.Type {
	case NotificationReviewDue, NotificationOverdue, NotificationStreak,
		NotificationAchievement, NotificationDailySummary:
	default:
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	switch n.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
	default:
		return fmt.Errorf("unknown notification priority %q", n.Priority)
	}
	switch n.Method {
	case MethodPush, MethodEmail, MethodInApp:
	default:
		return fmt.Errorf("unknown delivery method %q", n.Method)
	}
	return nil
}

// CanRetry reports whether another send attempt is allowed.
func (n Notification) CanRetry() bool {
	return n.RetryCount < MaxSendAttempts
}

// RetryDelay returns the backoff before the given attempt number
// (1-based): 5m, 10m, 20m.
func RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return retryBaseDelay << (attempt - 1)
}

// MarkSent returns a snapshot recording successful delivery.
func (n Notification) MarkSent(now time.Time) Notification {
	n.Status = StatusSent
	n.SentAt = &now
	n.FailureReason = ""
	n.UpdatedAt = now
	return n
}

// ResetForRetry returns a pending snapshot rescheduled with exponential
// backoff after a transient send failure.
func (n Notification) ResetForRetry(now time.Time, reason string) Notification {
	n.RetryCount++
	n.Status = StatusPending
	n.FailureReason = reason
	n.ScheduledFor = now.Add(RetryDelay(n.RetryCount))
	n.UpdatedAt = now
	return n
}

// MarkFailed returns a permanently failed snapshot; the processor never
// picks it up again.
func (n Notification) MarkFailed(now time.Time, reason string) Notification {
	n.RetryCount++
	n.Status = StatusFailed
	n.FailureReason = reason
	n.UpdatedAt = now
	return n
}

// MarkCancelled returns a cancelled snapshot, used when the recipient has
// disabled the notification type.
func (n Notification) MarkCancelled(now time.Time, reason string) Notification {
	n.Status = StatusCancelled
	n.FailureReason = reason
	n.UpdatedAt = now
	return n
}

// Reschedule returns a pending snapshot moved to a later time, used for
// quiet-hours deferral. Retry count is untouched.
func (n Notification) Reschedule(now, at time.Time) Notification {
	n.Status = StatusPending
	n.ScheduledFor = at
	n.UpdatedAt = now
	return n
}
