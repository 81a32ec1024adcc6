package api

import (
	"encoding/json"
	"net/http"

	"github.com/studypulse/studypulse/internal/errors"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
)

func (s *Server) handleDueReviews(w http.ResponseWriter, r *http.Request) {
	studentID, err := requireStudentAccess(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	due, err := s.ReviewQueue.GetDueToday(r.Context(), studentID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"student_id": studentID,
		"count":      len(due),
		"reviews":    due,
	})
}

func (s *Server) handleOverdueReviews(w http.ResponseWriter, r *http.Request) {
	studentID, err := requireStudentAccess(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	overdue, err := s.ReviewQueue.GetOverdue(r.Context(), studentID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"student_id": studentID,
		"count":      len(overdue),
		"reviews":    overdue,
	})
}

type completeReviewRequest struct {
	Feedback       string `json:"feedback"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty"`
	AnswerContent  string `json:"answer_content,omitempty"`
}

func (s *Server) handleCompleteReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

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

	var req completeReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}
	feedback, err := models.ParseReviewFeedback(req.Feedback)
	if err != nil {
		handleError(w, r, errors.NewValidationError("feedback", err.Error()))
		return
	}

	log.Debug("completing review: schedule_id=%d, feedback=%s", id, feedback)
	result, err := s.ReviewQueue.MarkReviewCompleted(r.Context(), actor, id, feedback, req.ResponseTimeMs, req.AnswerContent)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	studentID, err := requireStudentAccess(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	stats, err := s.ReviewQueue.GetStatistics(r.Context(), studentID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleStudentAssessment(w http.ResponseWriter, r *http.Request) {
	studentID, err := requireStudentAccess(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	assessment, err := s.Difficulty.AssessStudent(r.Context(), studentID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assessment)
}

func (s *Server) handleScheduleAssessment(w http.ResponseWriter, r *http.Request) {
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

	assessment, err := s.Difficulty.AssessProblem(r.Context(), actor, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assessment)
}
