package sqlite

import (
	"context"
	"database/sql"

	"github.com/studypulse/studypulse/internal/events"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new ReviewEventStore implementation over
// the outbox table written by schedule updates.
func NewEventRepository(db *sql.DB) repository.ReviewEventStore {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindUnprocessed(ctx context.Context, limit int) ([]events.ReviewCompleted, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	rows, err := r.db.QueryContext(ctx, `
SELECT event_id, schedule_id, student_id, problem_id, feedback, is_correct,
    response_time_ms, answer_content, occurred_at
FROM review_events
WHERE processed = 0
ORDER BY created_at ASC
LIMIT ?`, limit)
	if err != nil {
		log.Error("failed to query unprocessed events: %v", err)
		return nil, err
	}
	defer rows.Close()
	var out []events.ReviewCompleted
	for rows.Next() {
		var ev events.ReviewCompleted
		if err := rows.Scan(&ev.EventID, &ev.ScheduleID, &ev.StudentID, &ev.ProblemID, &ev.Feedback,
			&ev.IsCorrect, &ev.ResponseTimeMs, &ev.AnswerContent, &ev.OccurredAt); err != nil {
			log.Error("failed to scan event row: %v", err)
			return nil, err
		}
		out = append(out, ev)
	}
	log.Debug("found %d unprocessed events", len(out))
	return out, rows.Err()
}

func (r *eventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	_, err := r.db.ExecContext(ctx, `UPDATE review_events SET processed = 1 WHERE event_id = ?`, eventID)
	if err != nil {
		log.Error("failed to mark event processed: %v", err)
	}
	return err
}
