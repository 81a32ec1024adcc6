// Package projector consumes review-completion events from the outbox
// and materializes immutable study records. It runs asynchronously so
// audit-trail persistence can never block scheduling.
package projector

import (
	"context"

	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/repository"
)

// DefaultDrainLimit bounds how many events one drain pass consumes.
const DefaultDrainLimit = 100

// Projector drains the completion-event outbox into study records.
// Delivery is at-least-once; the record insert is idempotent per event
// id, so re-processing an event is harmless.
type Projector struct {
	events  repository.ReviewEventStore
	records repository.StudyRecordStore
}

// New creates a Projector.
func New(events repository.ReviewEventStore, records repository.StudyRecordStore) *Projector {
	return &Projector{events: events, records: records}
}

// Drain processes up to limit outstanding events and reports how many
// were handled. An event whose record insert fails stays unprocessed
// and is retried on the next pass; it never stops the rest of the
// batch.
func (p *Projector) Drain(ctx context.Context, limit int) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("projector")
	if limit <= 0 {
		limit = DefaultDrainLimit
	}

	evs, err := p.events.FindUnprocessed(ctx, limit)
	if err != nil {
		log.Error("failed to fetch outbox events: %v", err)
		return 0, err
	}

	processed := 0
	for _, ev := range evs {
		inserted, err := p.records.Insert(ctx, ev.Record())
		if err != nil {
			log.Error("failed to project event %s: %v", ev.EventID, err)
			continue
		}
		if !inserted {
			log.Debug("event %s already projected", ev.EventID)
		}
		if err := p.events.MarkProcessed(ctx, ev.EventID); err != nil {
			log.Error("failed to mark event %s processed: %v", ev.EventID, err)
			continue
		}
		processed++
	}
	if processed > 0 {
		log.Debug("projected %d review events", processed)
	}
	return processed, nil
}
