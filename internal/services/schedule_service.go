package services

import (
	"context"

	"github.com/studypulse/studypulse/internal/clock"
	"github.com/studypulse/studypulse/internal/errors"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
)

// ScheduleService manages the lifecycle of review schedules outside the
// feedback path: creation, manual adjustment, deletion and archival.
type ScheduleService interface {
	CreateSchedule(ctx context.Context, actor models.Actor, studentID, problemID int64) (*models.ReviewSchedule, error)
	AdjustSchedule(ctx context.Context, actor models.Actor, scheduleID int64, intervalDays int, easeFactor float64) (*models.ReviewSchedule, error)
	CompleteSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error
	SoftDeleteSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error
	ArchiveSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error
	HardDeleteSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error
}

type scheduleService struct {
	schedules repository.ReviewScheduleStore
	records   repository.StudyRecordStore
	clock     clock.Clock
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(schedules repository.ReviewScheduleStore, records repository.StudyRecordStore, clk clock.Clock) ScheduleService {
	return &scheduleService{schedules: schedules, records: records, clock: clk}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, actor models.Actor, studentID, problemID int64) (*models.ReviewSchedule, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating schedule: student_id=%d, problem_id=%d", studentID, problemID)

	if studentID <= 0 {
		return nil, errors.NewValidationError("student_id", "must be positive")
	}
	if problemID <= 0 {
		return nil, errors.NewValidationError("problem_id", "must be positive")
	}
	if !actor.CanActOn(studentID) {
		return nil, errors.NewForbiddenError("cannot schedule reviews for another student")
	}

	// Creation is idempotent per (student, problem).
	existing, err := s.schedules.GetByStudentAndProblem(ctx, studentID, problemID)
	if err != nil {
		log.Error("failed to look up existing schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		log.Debug("schedule already exists: id=%d", existing.ID)
		return existing, nil
	}

	sched := models.NewReviewSchedule(studentID, problemID, s.clock.Now())
	id, err := s.schedules.Insert(ctx, sched)
	if err != nil {
		log.Error("failed to insert schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	sched.ID = id
	log.Info("schedule created: id=%d, student_id=%d, problem_id=%d", id, studentID, problemID)
	return &sched, nil
}

// loadOwned fetches a schedule and enforces the ownership rule.
func (s *scheduleService) loadOwned(ctx context.Context, actor models.Actor, scheduleID int64) (*models.ReviewSchedule, error) {
	sched, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if sched == nil {
		return nil, errors.NewNotFoundError("schedule", scheduleID)
	}
	if !actor.CanActOn(sched.StudentID) {
		return nil, errors.NewForbiddenError("schedule belongs to another student")
	}
	return sched, nil
}

func (s *scheduleService) AdjustSchedule(ctx context.Context, actor models.Actor, scheduleID int64, intervalDays int, easeFactor float64) (*models.ReviewSchedule, error) {
	log := logger.FromContext(ctx)
	log.Debug("adjusting schedule: id=%d, interval=%d, ease=%.2f", scheduleID, intervalDays, easeFactor)

	// Manual overrides are validated against the hard bounds before any
	// state is touched.
	if intervalDays < models.MinIntervalDays || intervalDays > models.MaxIntervalDays {
		return nil, errors.NewValidationError("interval_days", "must be between 1 and 365")
	}
	if easeFactor < models.MinEaseFactor || easeFactor > models.MaxEaseFactor {
		return nil, errors.NewValidationError("ease_factor", "must be between 1.0 and 5.0")
	}

	sched, err := s.loadOwned(ctx, actor, scheduleID)
	if err != nil {
		return nil, err
	}
	if !sched.IsReviewable() {
		return nil, errors.NewConflictError("schedule is no longer active")
	}

	now := s.clock.Now()
	updated := *sched
	updated.IntervalDays = intervalDays
	updated.EaseFactor = easeFactor
	updated.NextReviewAt = sched.LastReviewedAt().AddDate(0, 0, intervalDays)
	updated.UpdatedAt = now

	if err := s.schedules.Update(ctx, updated, sched.Version); err != nil {
		if err == repository.ErrVersionConflict {
			return nil, errors.NewConflictError("schedule was modified concurrently, retry")
		}
		log.Error("failed to update schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	updated.Version = sched.Version + 1
	log.Info("schedule adjusted: id=%d", scheduleID)
	return &updated, nil
}

func (s *scheduleService) transition(ctx context.Context, actor models.Actor, scheduleID int64, apply func(models.ReviewSchedule) (models.ReviewSchedule, error)) error {
	log := logger.FromContext(ctx)

	sched, err := s.loadOwned(ctx, actor, scheduleID)
	if err != nil {
		return err
	}
	updated, err := apply(*sched)
	if err != nil {
		return errors.NewConflictError(err.Error())
	}
	if err := s.schedules.Update(ctx, updated, sched.Version); err != nil {
		if err == repository.ErrVersionConflict {
			return errors.NewConflictError("schedule was modified concurrently, retry")
		}
		log.Error("failed to update schedule: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *scheduleService) CompleteSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error {
	now := s.clock.Now()
	return s.transition(ctx, actor, scheduleID, func(sched models.ReviewSchedule) (models.ReviewSchedule, error) {
		return sched.Complete(now)
	})
}

func (s *scheduleService) SoftDeleteSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error {
	now := s.clock.Now()
	return s.transition(ctx, actor, scheduleID, func(sched models.ReviewSchedule) (models.ReviewSchedule, error) {
		return sched.MarkDeleted(now)
	})
}

func (s *scheduleService) ArchiveSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error {
	log := logger.FromContext(ctx)

	sched, err := s.loadOwned(ctx, actor, scheduleID)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	updated, err := sched.Archive(now)
	if err != nil {
		return errors.NewConflictError(err.Error())
	}
	if err := s.schedules.Update(ctx, updated, sched.Version); err != nil {
		if err == repository.ErrVersionConflict {
			return errors.NewConflictError("schedule was modified concurrently, retry")
		}
		log.Error("failed to archive schedule: %v", err)
		return errors.NewInternalError(err)
	}

	// Archived history stays for aggregate reporting but loses answer
	// content.
	if err := s.records.AnonymizeByStudentAndProblem(ctx, sched.StudentID, sched.ProblemID); err != nil {
		log.Error("failed to anonymize study records: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("schedule archived: id=%d", scheduleID)
	return nil
}

func (s *scheduleService) HardDeleteSchedule(ctx context.Context, actor models.Actor, scheduleID int64) error {
	log := logger.FromContext(ctx)

	sched, err := s.loadOwned(ctx, actor, scheduleID)
	if err != nil {
		return err
	}
	// Hard deletion is reserved for items that never accumulated review
	// history, or that were archived (and anonymized) first.
	if sched.ReviewCount > 0 && sched.Status != models.ScheduleArchived {
		return errors.NewConflictError("reviewed schedules must be archived before hard deletion")
	}
	if err := s.schedules.Delete(ctx, scheduleID); err != nil {
		log.Error("failed to delete schedule: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("schedule hard-deleted: id=%d", scheduleID)
	return nil
}
