package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
)

type studyRecordRepository struct {
	db *sql.DB
}

// NewStudyRecordRepository creates a new StudyRecordStore implementation
func NewStudyRecordRepository(db *sql.DB) repository.StudyRecordStore {
	return &studyRecordRepository{db: db}
}

func (r *studyRecordRepository) Insert(ctx context.Context, rec models.StudyRecord) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("study_record_repo")
	log.Debug("inserting study record: event_id=%s, student_id=%d", rec.EventID, rec.StudentID)

	// INSERT OR IGNORE keyed by event id makes projection idempotent
	// under event re-delivery.
	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO study_records (event_id, student_id, problem_id, feedback, is_correct,
    response_time_ms, answer_content, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, rec.EventID, rec.StudentID, rec.ProblemID, rec.Feedback, rec.IsCorrect,
		rec.ResponseTimeMs, rec.AnswerContent, rec.CreatedAt)
	if err != nil {
		log.Error("failed to insert study record: %v", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		log.Debug("study record already exists: event_id=%s", rec.EventID)
		return false, nil
	}
	return true, nil
}

const studyRecordColumns = `id, event_id, student_id, problem_id, feedback, is_correct,
response_time_ms, answer_content, created_at`

func (r *studyRecordRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.StudyRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("study_record_repo")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query study records: %v", err)
		return nil, err
	}
	defer rows.Close()
	var out []models.StudyRecord
	for rows.Next() {
		var rec models.StudyRecord
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.StudentID, &rec.ProblemID, &rec.Feedback,
			&rec.IsCorrect, &rec.ResponseTimeMs, &rec.AnswerContent, &rec.CreatedAt); err != nil {
			log.Error("failed to scan study record row: %v", err)
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *studyRecordRepository) FindByStudent(ctx context.Context, studentID int64, limit int) ([]models.StudyRecord, error) {
	return r.queryMany(ctx, `
SELECT `+studyRecordColumns+` FROM study_records
WHERE student_id = ?
ORDER BY created_at DESC
LIMIT ?`, studentID, limit)
}

func (r *studyRecordRepository) FindByStudentAndProblem(ctx context.Context, studentID, problemID int64, limit int) ([]models.StudyRecord, error) {
	return r.queryMany(ctx, `
SELECT `+studyRecordColumns+` FROM study_records
WHERE student_id = ? AND problem_id = ?
ORDER BY created_at DESC
LIMIT ?`, studentID, problemID, limit)
}

func (r *studyRecordRepository) CountByStudentSince(ctx context.Context, studentID int64, since time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("study_record_repo")
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM study_records WHERE student_id = ? AND created_at >= ?`, studentID, since).Scan(&n)
	if err != nil {
		log.Error("failed to count study records: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *studyRecordRepository) ReviewDays(ctx context.Context, studentID int64, since time.Time) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("study_record_repo")
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT date(created_at) FROM study_records
WHERE student_id = ? AND created_at >= ?
ORDER BY 1 DESC`, studentID, since)
	if err != nil {
		log.Error("failed to query review days: %v", err)
		return nil, err
	}
	defer rows.Close()
	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *studyRecordRepository) SumResponseTime(ctx context.Context, studentID int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("study_record_repo")
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
SELECT SUM(response_time_ms) FROM study_records WHERE student_id = ?`, studentID).Scan(&total)
	if err != nil {
		log.Error("failed to sum response times: %v", err)
		return 0, err
	}
	return total.Int64, nil
}

func (r *studyRecordRepository) AnonymizeByStudentAndProblem(ctx context.Context, studentID, problemID int64) error {
	log := logger.FromContext(ctx).WithPrefix("study_record_repo")
	log.Debug("anonymizing study records: student_id=%d, problem_id=%d", studentID, problemID)

	_, err := r.db.ExecContext(ctx, `
UPDATE study_records SET answer_content = '' WHERE student_id = ? AND problem_id = ?`, studentID, problemID)
	if err != nil {
		log.Error("failed to anonymize study records: %v", err)
	}
	return err
}
