package notify

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
)

// Batch defaults applied when options are zero.
const (
	DefaultBatchSize   = 50
	DefaultBatchBudget = 30 * time.Second
	DefaultSendTimeout = 5 * time.Second
)

// Item outcomes reported per processed notification.
const (
	OutcomeSent        = "sent"
	OutcomeRetry       = "retry_scheduled"
	OutcomeFailed      = "failed"
	OutcomeRescheduled = "rescheduled_quiet_hours"
	OutcomeCancelled   = "cancelled"
	OutcomeSkipped     = "skipped_already_claimed"
)

// BatchOptions tunes one processing tick. Zero values take defaults;
// empty filters match everything.
type BatchOptions struct {
	BatchSize         int
	Priority          models.NotificationPriority
	Method            models.DeliveryMethod
	MaxProcessingTime time.Duration
}

// ItemResult records what happened to one notification in a tick.
type ItemResult struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// BatchResult summarizes one processing tick. A hit time budget is a
// normal partial outcome, not an error.
type BatchResult struct {
	Processed   int                `json:"processed"`
	Succeeded   int                `json:"succeeded"`
	Failed      int                `json:"failed"`
	Skipped     int                `json:"skipped"`
	Cancelled   int                `json:"cancelled"`
	Remaining   int                `json:"remaining"`
	Results     []ItemResult       `json:"results"`
	QueueStatus models.QueueStatus `json:"queue_status"`
}

// QueueProcessor drains pending notifications under a wall-clock budget.
// Multiple processor instances may run concurrently; the atomic claim in
// the store keeps them from double-sending.
type QueueProcessor struct {
	notifications repository.NotificationStore
	settings      repository.NotificationSettingsStore
	sender        Sender
	clock         clock.Clock
	sendTimeout   time.Duration

	mu              sync.Mutex
	avgBatchSeconds float64
}

// NewQueueProcessor creates a QueueProcessor. sendTimeout bounds each
// individual delivery; zero takes the default.
func NewQueueProcessor(notifications repository.NotificationStore, settings repository.NotificationSettingsStore, sender Sender, clk clock.Clock, sendTimeout time.Duration) *QueueProcessor {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &QueueProcessor{
		notifications: notifications,
		settings:      settings,
		sender:        sender,
		clock:         clk,
		sendTimeout:   sendTimeout,
	}
}

// ProcessBatch runs one tick: fetch due pending notifications, deliver
// them in order until the batch or the time budget is exhausted, and
// report what happened. A single notification's failure never aborts
// the batch.
func (p *QueueProcessor) ProcessBatch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	log := logger.FromContext(ctx).WithPrefix("notify")

	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.MaxProcessingTime <= 0 {
		opts.MaxProcessingTime = DefaultBatchBudget
	}

	start := p.clock.Now()
	filter := models.NotificationFilter{Priority: opts.Priority, Method: opts.Method}
	batch, err := p.notifications.FindPending(ctx, filter, start, opts.BatchSize)
	if err != nil {
		log.Error("failed to fetch pending notifications: %v", err)
		return nil, err
	}
	log.Debug("processing batch: size=%d, budget=%s", len(batch), opts.MaxProcessingTime)

	result := &BatchResult{}
	for _, n := range batch {
		if p.clock.Now().Sub(start) >= opts.MaxProcessingTime {
			log.Warn("batch budget exhausted after %d of %d notifications", result.Processed, len(batch))
			break
		}
		item := p.processOne(ctx, n)
		result.Processed++
		result.Results = append(result.Results, item)
		switch item.Outcome {
		case OutcomeSent:
			result.Succeeded++
		case OutcomeFailed, OutcomeRetry:
			result.Failed++
		case OutcomeCancelled:
			result.Cancelled++
		default:
			result.Skipped++
		}
	}

	elapsed := p.clock.Now().Sub(start).Seconds()
	remaining, err := p.notifications.CountPending(ctx, p.clock.Now())
	if err != nil {
		log.Error("failed to count pending notifications: %v", err)
		return nil, err
	}
	result.Remaining = remaining
	result.QueueStatus = models.QueueStatus{
		Pending:               remaining,
		EstimatedDrainSeconds: p.estimateDrain(remaining, opts.BatchSize, elapsed),
	}

	log.Info("batch done: processed=%d, succeeded=%d, failed=%d, skipped=%d, cancelled=%d, remaining=%d",
		result.Processed, result.Succeeded, result.Failed, result.Skipped, result.Cancelled, remaining)
	return result, nil
}

func (p *QueueProcessor) processOne(ctx context.Context, n models.Notification) ItemResult {
	log := logger.FromContext(ctx).WithPrefix("notify").WithField("notification_id", n.ID)
	now := p.clock.Now()

	claimed, err := p.notifications.Claim(ctx, n.ID)
	if err != nil {
		return ItemResult{ID: n.ID, Outcome: OutcomeSkipped, Reason: err.Error()}
	}
	if !claimed {
		// Another processor instance got here first.
		return ItemResult{ID: n.ID, Outcome: OutcomeSkipped, Reason: "not pending anymore"}
	}

	settings, err := p.settings.GetByStudent(ctx, n.RecipientID)
	if err != nil {
		log.Error("failed to load settings: %v", err)
		// Release the claim so a later tick retries.
		_ = p.notifications.Update(ctx, n.Reschedule(now, n.ScheduledFor))
		return ItemResult{ID: n.ID, Outcome: OutcomeSkipped, Reason: "settings unavailable"}
	}
	if settings == nil {
		def := models.DefaultNotificationSettings(n.RecipientID)
		settings = &def
	}

	if !settings.TypeEnabled(n.Type) {
		updated := n.MarkCancelled(now, "notification type disabled by recipient")
		if err := p.notifications.Update(ctx, updated); err != nil {
			log.Error("failed to cancel notification: %v", err)
		}
		return ItemResult{ID: n.ID, Outcome: OutcomeCancelled, Reason: "type disabled"}
	}

	// Quiet hours defer everything except critical notifications.
	if n.Priority != models.PriorityCritical && settings.InQuietHours(now) {
		resumeAt := settings.QuietHoursEndAfter(now)
		updated := n.Reschedule(now, resumeAt)
		if err := p.notifications.Update(ctx, updated); err != nil {
			log.Error("failed to reschedule notification: %v", err)
			return ItemResult{ID: n.ID, Outcome: OutcomeSkipped, Reason: err.Error()}
		}
		log.Debug("deferred to end of quiet hours: %s", resumeAt.Format(time.RFC3339))
		return ItemResult{ID: n.ID, Outcome: OutcomeRescheduled, Reason: resumeAt.Format(time.RFC3339)}
	}

	sendCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	err = p.sender.Send(sendCtx, n)
	cancel()
	now = p.clock.Now()

	if err == nil {
		updated := n.MarkSent(now)
		if uerr := p.notifications.Update(ctx, updated); uerr != nil {
			log.Error("failed to record sent notification: %v", uerr)
		}
		return ItemResult{ID: n.ID, Outcome: OutcomeSent}
	}

	log.Warn("send failed (attempt %d): %v", n.RetryCount+1, err)
	if n.RetryCount+1 < models.MaxSendAttempts {
		updated := n.ResetForRetry(now, err.Error())
		if uerr := p.notifications.Update(ctx, updated); uerr != nil {
			log.Error("failed to reschedule retry: %v", uerr)
		}
		return ItemResult{ID: n.ID, Outcome: OutcomeRetry, Reason: err.Error()}
	}

	updated := n.MarkFailed(now, err.Error())
	if uerr := p.notifications.Update(ctx, updated); uerr != nil {
		log.Error("failed to mark notification failed: %v", uerr)
	}
	return ItemResult{ID: n.ID, Outcome: OutcomeFailed, Reason: err.Error()}
}

// Status reports current queue depth and the drain estimate from the
// last observed batch pace.
func (p *QueueProcessor) Status(ctx context.Context, batchSize int) (models.QueueStatus, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	pending, err := p.notifications.CountPending(ctx, p.clock.Now())
	if err != nil {
		return models.QueueStatus{}, err
	}

	p.mu.Lock()
	avg := p.avgBatchSeconds
	p.mu.Unlock()
	var drain float64
	if pending > 0 && avg > 0 {
		drain = math.Ceil(float64(pending)/float64(batchSize)) * avg
	}
	return models.QueueStatus{Pending: pending, EstimatedDrainSeconds: drain}, nil
}

// estimateDrain projects how long the queue needs at the current batch
// pace, smoothing batch duration across ticks.
func (p *QueueProcessor) estimateDrain(remaining, batchSize int, elapsedSeconds float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.avgBatchSeconds == 0 {
		p.avgBatchSeconds = elapsedSeconds
	} else {
		p.avgBatchSeconds = 0.8*p.avgBatchSeconds + 0.2*elapsedSeconds
	}
	if remaining == 0 || batchSize <= 0 {
		return 0
	}
	batches := math.Ceil(float64(remaining) / float64(batchSize))
	return batches * p.avgBatchSeconds
}
