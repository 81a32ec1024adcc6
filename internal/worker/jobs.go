package worker

import (
	"context"
	"sync"
	"time"

	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/notify"
	"github.com/studypulse/studypulse/internal/repository"
)

// ProjectStudyRecordsJob drains the completion-event outbox into study
// records.
type ProjectStudyRecordsJob struct {
	Projector RecordProjector
	Limit     int
}

func (j *ProjectStudyRecordsJob) Name() string { return "project_study_records" }

func (j *ProjectStudyRecordsJob) Run(ctx context.Context) error {
	_, err := j.Projector.Drain(ctx, j.Limit)
	return err
}

// NotificationTickJob runs one queue-processing tick.
type NotificationTickJob struct {
	Processor NotificationProcessor
	Options   notify.BatchOptions
}

func (j *NotificationTickJob) Name() string { return "notification_tick" }

func (j *NotificationTickJob) Run(ctx context.Context) error {
	_, err := j.Processor.ProcessBatch(ctx, j.Options)
	return err
}

// OverdueScanJob finds every student holding overdue reviews and queues
// an overdue reminder sized to the worst urgency in their backlog.
type OverdueScanJob struct {
	Schedules     repository.ReviewScheduleStore
	Queue         OverdueLister
	Notifier      OverdueNotifier
	Clock         clock.Clock
	MaxConcurrent int
}

func (j *OverdueScanJob) Name() string { return "overdue_scan" }

func (j *OverdueScanJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	students, err := j.Schedules.ListStudentsWithOverdue(ctx, j.Clock.Now())
	if err != nil {
		log.Error("failed to list students with overdue reviews: %v", err)
		return err
	}
	if len(students) == 0 {
		log.Debug("no students with overdue reviews")
		return nil
	}
	log.Info("scanning %d students with overdue reviews", len(students))

	maxConc := j.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 4
	}
	sem := make(chan struct{}, maxConc)

	var wg sync.WaitGroup
	for _, studentID := range students {
		if ctx.Err() != nil {
			log.Warn("overdue scan cancelled: %v", ctx.Err())
			break
		}
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := j.notifyStudent(ctx, id); err != nil {
				log.Error("failed to queue overdue reminder for student %d: %v", id, err)
			}
		}(studentID)
	}
	wg.Wait()

	log.Info("overdue scan completed in %v", time.Since(start))
	return ctx.Err()
}

func (j *OverdueScanJob) notifyStudent(ctx context.Context, studentID int64) error {
	overdue, err := j.Queue.GetOverdue(ctx, studentID)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	// The reminder carries the most urgent priority in the backlog.
	worst := models.OverdueLow
	for _, o := range overdue {
		if o.Priority.MoreUrgentThan(worst) {
			worst = o.Priority
		}
	}
	return j.Notifier.ScheduleOverdueReminder(ctx, studentID, len(overdue), worst)
}
