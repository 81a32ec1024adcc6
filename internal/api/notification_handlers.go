package api

import (
	"net/http"

	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/notify"
)

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	studentID, err := requireStudentAccess(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := queryIntOr(r, "limit", 50)
	notifications, err := s.NotificationRepo.FindByRecipient(r.Context(), studentID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"student_id":    studentID,
		"count":         len(notifications),
		"notifications": notifications,
	})
}

// handleProcessNotifications runs one delivery tick synchronously and
// returns the batch report. The periodic ticker does the same work in
// the background; this endpoint exists for operators.
func (s *Server) handleProcessNotifications(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	opts := notify.BatchOptions{
		BatchSize:         queryIntOr(r, "batch_size", s.NotificationBatchSize),
		Priority:          models.NotificationPriority(r.URL.Query().Get("priority")),
		Method:            models.DeliveryMethod(r.URL.Query().Get("method")),
		MaxProcessingTime: s.NotificationBatchBudget,
	}

	// async=true hands the tick to the worker pool instead of running it
	// on the request.
	if r.URL.Query().Get("async") == "true" {
		if err := s.JobQueue.EnqueueNotificationTick(opts); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	log.Info("manual notification batch requested: batch_size=%d", opts.BatchSize)
	result, err := s.Processor.ProcessBatch(r.Context(), opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.Processor.Status(r.Context(), s.NotificationBatchSize)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}
