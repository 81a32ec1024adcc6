// Package notify turns scheduling state changes into delivered
// reminders. Actual transport (push, email, in-app) lives behind the
// Sender interface and is provided by the host application.
package notify

import (
	"context"

	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
)

// Sender delivers a notification over its delivery method. A returned
// error is treated as a transient failure and retried with backoff.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// LogSender writes notifications to the log instead of delivering them.
// Useful in development and as a default wiring.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n models.Notification) error {
	logger.FromContext(ctx).Info("delivering notification: id=%s, recipient_id=%d, type=%s, method=%s, title=%q",
		n.ID, n.RecipientID, n.Type, n.Method, n.Title)
	return nil
}
