// Package api exposes the scheduling pipeline over HTTP as a JSON API.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studypulse/studypulse/internal/jobs"
	"github.com/studypulse/studypulse/internal/notify"
	"github.com/studypulse/studypulse/internal/services"
)

type Server struct {
	DB               *sql.DB
	ReviewQueue      services.ReviewQueueService
	Schedules        services.ScheduleService
	Difficulty       services.DifficultyService
	Processor        *notify.QueueProcessor
	NotificationRepo NotificationReader
	JobQueue         jobs.JobQueue

	NotificationBatchSize   int
	NotificationBatchBudget time.Duration
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/students/{studentID}", func(r chi.Router) {
		r.Get("/reviews/due", s.handleDueReviews)
		r.Get("/reviews/overdue", s.handleOverdueReviews)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/assessment", s.handleStudentAssessment)
		r.Get("/notifications", s.handleNotifications)
	})

	r.Route("/schedules", func(r chi.Router) {
		r.Post("/", s.handleCreateSchedule)
		r.Get("/{id}", s.handleGetSchedule)
		r.Post("/{id}/review", s.handleCompleteReview)
		r.Put("/{id}/adjust", s.handleAdjustSchedule)
		r.Post("/{id}/complete", s.handleCompleteSchedule)
		r.Post("/{id}/archive", s.handleArchiveSchedule)
		r.Delete("/{id}", s.handleSoftDeleteSchedule)
		r.Delete("/{id}/purge", s.handleHardDeleteSchedule)
		r.Get("/{id}/assessment", s.handleScheduleAssessment)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Post("/process", s.handleProcessNotifications)
		r.Get("/queue", s.handleQueueStatus)
	})

	return r
}
