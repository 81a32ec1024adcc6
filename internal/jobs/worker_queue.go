package jobs

import (
	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/notify"
	"github.com/studypulse/studypulse/internal/repository"
	"github.com/studypulse/studypulse/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	pool          *worker.Pool
	projector     worker.RecordProjector
	processor     worker.NotificationProcessor
	queue         worker.OverdueLister
	notifier      worker.OverdueNotifier
	schedules     repository.ReviewScheduleStore
	clock         clock.Clock
	maxConcurrent int
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	projector worker.RecordProjector,
	processor worker.NotificationProcessor,
	queue worker.OverdueLister,
	notifier worker.OverdueNotifier,
	schedules repository.ReviewScheduleStore,
	clk clock.Clock,
	maxConcurrent int,
) JobQueue {
	return &WorkerQueue{
		pool:          pool,
		projector:     projector,
		processor:     processor,
		queue:         queue,
		notifier:      notifier,
		schedules:     schedules,
		clock:         clk,
		maxConcurrent: maxConcurrent,
	}
}

func (q *WorkerQueue) EnqueueProjection(limit int) error {
	return q.pool.Submit(&worker.ProjectStudyRecordsJob{
		Projector: q.projector,
		Limit:     limit,
	})
}

func (q *WorkerQueue) EnqueueNotificationTick(opts notify.BatchOptions) error {
	return q.pool.Submit(&worker.NotificationTickJob{
		Processor: q.processor,
		Options:   opts,
	})
}

func (q *WorkerQueue) EnqueueOverdueScan() error {
	return q.pool.Submit(&worker.OverdueScanJob{
		Schedules:     q.schedules,
		Queue:         q.queue,
		Notifier:      q.notifier,
		Clock:         q.clock,
		MaxConcurrent: q.maxConcurrent,
	})
}
