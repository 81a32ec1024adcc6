package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/studypulse/studypulse/internal/events"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
)

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new ReviewScheduleStore implementation
func NewScheduleRepository(db *sql.DB) repository.ReviewScheduleStore {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, student_id, problem_id, interval_days, ease_factor, next_review_at,
review_count, consecutive_failures, status, version, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (models.ReviewSchedule, error) {
	var s models.ReviewSchedule
	err := row.Scan(&s.ID, &s.StudentID, &s.ProblemID, &s.IntervalDays, &s.EaseFactor, &s.NextReviewAt,
		&s.ReviewCount, &s.ConsecutiveFailures, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *scheduleRepository) Insert(ctx context.Context, s models.ReviewSchedule) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("inserting schedule: student_id=%d, problem_id=%d", s.StudentID, s.ProblemID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_schedules (student_id, problem_id, interval_days, ease_factor, next_review_at,
    review_count, consecutive_failures, status, version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
`, s.StudentID, s.ProblemID, s.IntervalDays, s.EaseFactor, s.NextReviewAt,
		s.ReviewCount, s.ConsecutiveFailures, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		log.Error("failed to insert schedule: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get schedule id: %v", err)
		return 0, err
	}
	log.Debug("schedule inserted: id=%d", id)
	return id, nil
}

func (r *scheduleRepository) Get(ctx context.Context, id int64) (*models.ReviewSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM review_schedules WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("schedule not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get schedule: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) GetByStudentAndProblem(ctx context.Context, studentID, problemID int64) (*models.ReviewSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT `+scheduleColumns+` FROM review_schedules WHERE student_id = ? AND problem_id = ?`, studentID, problemID)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get schedule by student and problem: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.ReviewSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query schedules: %v", err)
		return nil, err
	}
	defer rows.Close()
	var out []models.ReviewSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			log.Error("failed to scan schedule row: %v", err)
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *scheduleRepository) FindActiveByStudent(ctx context.Context, studentID int64) ([]models.ReviewSchedule, error) {
	return r.queryMany(ctx, `
SELECT `+scheduleColumns+` FROM review_schedules
WHERE student_id = ? AND status = ?
ORDER BY next_review_at ASC`, studentID, models.ScheduleActive)
}

func (r *scheduleRepository) FindDueByStudent(ctx context.Context, studentID int64, before time.Time) ([]models.ReviewSchedule, error) {
	return r.queryMany(ctx, `
SELECT `+scheduleColumns+` FROM review_schedules
WHERE student_id = ? AND status = ? AND next_review_at <= ?
ORDER BY next_review_at ASC`, studentID, models.ScheduleActive, before)
}

func (r *scheduleRepository) FindOverdueByStudent(ctx context.Context, studentID int64, now time.Time) ([]models.ReviewSchedule, error) {
	return r.queryMany(ctx, `
SELECT `+scheduleColumns+` FROM review_schedules
WHERE student_id = ? AND status = ? AND next_review_at < ?
ORDER BY next_review_at ASC`, studentID, models.ScheduleActive, now)
}

func (r *scheduleRepository) ListStudentsWithOverdue(ctx context.Context, now time.Time) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT student_id FROM review_schedules
WHERE status = ? AND next_review_at < ?
ORDER BY student_id ASC`, models.ScheduleActive, now)
	if err != nil {
		log.Error("failed to list students with overdue schedules: %v", err)
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan student id: %v", err)
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func updateSchedule(ctx context.Context, execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, s models.ReviewSchedule, expectedVersion int64) error {
	res, err := execer.ExecContext(ctx, `
UPDATE review_schedules
SET interval_days = ?, ease_factor = ?, next_review_at = ?, review_count = ?,
    consecutive_failures = ?, status = ?, version = version + 1, updated_at = ?
WHERE id = ? AND version = ?
`, s.IntervalDays, s.EaseFactor, s.NextReviewAt, s.ReviewCount,
		s.ConsecutiveFailures, s.Status, s.UpdatedAt, s.ID, expectedVersion)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *scheduleRepository) Update(ctx context.Context, s models.ReviewSchedule, expectedVersion int64) error {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("updating schedule: id=%d, interval=%d, ease=%.2f, version=%d", s.ID, s.IntervalDays, s.EaseFactor, expectedVersion)

	if err := updateSchedule(ctx, r.db, s, expectedVersion); err != nil {
		if !errors.Is(err, repository.ErrVersionConflict) {
			log.Error("failed to update schedule: %v", err)
		}
		return err
	}
	return nil
}

func (r *scheduleRepository) UpdateWithEvent(ctx context.Context, s models.ReviewSchedule, expectedVersion int64, ev events.ReviewCompleted) error {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("updating schedule with event: id=%d, event_id=%s", s.ID, ev.EventID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if err := updateSchedule(ctx, t, s, expectedVersion); err != nil {
			return err
		}
		_, err := t.ExecContext(ctx, `
INSERT INTO review_events (event_id, schedule_id, student_id, problem_id, feedback, is_correct,
    response_time_ms, answer_content, occurred_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, ev.EventID, ev.ScheduleID, ev.StudentID, ev.ProblemID, ev.Feedback, ev.IsCorrect,
			ev.ResponseTimeMs, ev.AnswerContent, ev.OccurredAt)
		return err
	})
}

func (r *scheduleRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("schedule_repo")
	log.Debug("deleting schedule: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM review_schedules WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete schedule: %v", err)
	}
	return err
}
