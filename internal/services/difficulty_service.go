package services

import (
	"context"

	"github.com/studypulse/studypulse/internal/errors"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
	"github.com/studypulse/studypulse/internal/srs"
)

// recentRecordLimit bounds how much history feeds an assessment.
const recentRecordLimit = 20

// DifficultyService reports item and student-level difficulty built on
// the pure assessor in the srs package.
type DifficultyService interface {
	AssessProblem(ctx context.Context, actor models.Actor, scheduleID int64) (*srs.ItemAssessment, error)
	AssessStudent(ctx context.Context, studentID int64) (*srs.StudentAssessment, error)
}

type difficultyService struct {
	schedules repository.ReviewScheduleStore
	records   repository.StudyRecordStore
}

// NewDifficultyService creates a new DifficultyService
func NewDifficultyService(schedules repository.ReviewScheduleStore, records repository.StudyRecordStore) DifficultyService {
	return &difficultyService{schedules: schedules, records: records}
}

func (s *difficultyService) AssessProblem(ctx context.Context, actor models.Actor, scheduleID int64) (*srs.ItemAssessment, error) {
	log := logger.FromContext(ctx)
	log.Debug("assessing problem difficulty: schedule_id=%d", scheduleID)

	sched, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		log.Error("failed to get schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if sched == nil {
		return nil, errors.NewNotFoundError("schedule", scheduleID)
	}
	if !actor.CanActOn(sched.StudentID) {
		return nil, errors.NewForbiddenError("schedule belongs to another student")
	}

	records, err := s.records.FindByStudentAndProblem(ctx, sched.StudentID, sched.ProblemID, recentRecordLimit)
	if err != nil {
		log.Error("failed to get study records: %v", err)
		return nil, errors.NewInternalError(err)
	}

	assessment := srs.AssessItem(*sched, records)
	return &assessment, nil
}

func (s *difficultyService) AssessStudent(ctx context.Context, studentID int64) (*srs.StudentAssessment, error) {
	log := logger.FromContext(ctx)
	log.Debug("assessing student difficulty profile: student_id=%d", studentID)

	schedules, err := s.schedules.FindActiveByStudent(ctx, studentID)
	if err != nil {
		log.Error("failed to get schedules: %v", err)
		return nil, errors.NewInternalError(err)
	}

	items := make([]srs.ItemAssessment, 0, len(schedules))
	for _, sched := range schedules {
		records, err := s.records.FindByStudentAndProblem(ctx, sched.StudentID, sched.ProblemID, recentRecordLimit)
		if err != nil {
			log.Error("failed to get study records: %v", err)
			return nil, errors.NewInternalError(err)
		}
		items = append(items, srs.AssessItem(sched, records))
	}

	aggregate := srs.AssessStudent(items)
	return &aggregate, nil
}
