package api

import (
	"encoding/json"
	"net/http"

	"github.com/studypulse/studypulse/internal/errors"
	"github.com/studypulse/studypulse/internal/logger"
)

type createScheduleRequest struct {
	StudentID int64 `json:"student_id"`
	ProblemID int64 `json:"problem_id"`
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	actor, err := actorFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	log.Debug("creating schedule: student_id=%d, problem_id=%d", req.StudentID, req.ProblemID)
	sched, err := s.Schedules.CreateSchedule(r.Context(), actor, req.StudentID, req.ProblemID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, sched)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	// Assessment carries the schedule along with the difficulty view, so
	// a plain read reuses the same ownership checks.
	assessment, err := s.Difficulty.AssessProblem(r.Context(), actor, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assessment.Schedule)
}

type adjustScheduleRequest struct {
	IntervalDays int     `json:"interval_days"`
	EaseFactor   float64 `json:"ease_factor"`
}

func (s *Server) handleAdjustSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req adjustScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	sched, err := s.Schedules.AdjustSchedule(r.Context(), actor, id, req.IntervalDays, req.EaseFactor)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sched)
}

func (s *Server) transitionHandler(apply func(r *http.Request, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := apply(r, id); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleCompleteSchedule(w http.ResponseWriter, r *http.Request) {
	s.transitionHandler(func(r *http.Request, id int64) error {
		actor, err := actorFromRequest(r)
		if err != nil {
			return err
		}
		return s.Schedules.CompleteSchedule(r.Context(), actor, id)
	})(w, r)
}

func (s *Server) handleArchiveSchedule(w http.ResponseWriter, r *http.Request) {
	s.transitionHandler(func(r *http.Request, id int64) error {
		actor, err := actorFromRequest(r)
		if err != nil {
			return err
		}
		return s.Schedules.ArchiveSchedule(r.Context(), actor, id)
	})(w, r)
}

func (s *Server) handleSoftDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	s.transitionHandler(func(r *http.Request, id int64) error {
		actor, err := actorFromRequest(r)
		if err != nil {
			return err
		}
		return s.Schedules.SoftDeleteSchedule(r.Context(), actor, id)
	})(w, r)
}

func (s *Server) handleHardDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	s.transitionHandler(func(r *http.Request, id int64) error {
		actor, err := actorFromRequest(r)
		if err != nil {
			return err
		}
		return s.Schedules.HardDeleteSchedule(r.Context(), actor, id)
	})(w, r)
}
