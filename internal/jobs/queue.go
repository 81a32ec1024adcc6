package jobs

import "github.com/studypulse/studypulse/internal/notify"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueProjection(limit int) error
	EnqueueNotificationTick(opts notify.BatchOptions) error
	EnqueueOverdueScan() error
}
