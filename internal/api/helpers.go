package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studypulse/studypulse/internal/errors"
	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
)

// NotificationReader is the read-only slice of notification storage the
// API needs.
type NotificationReader interface {
	FindByRecipient(ctx context.Context, recipientID int64, limit int) ([]models.Notification, error)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

func queryIntOr(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// actorFromRequest identifies the caller from request headers. The
// surrounding platform authenticates requests before they reach this
// service; here we only read the asserted identity.
func actorFromRequest(r *http.Request) (models.Actor, error) {
	idStr := r.Header.Get("X-Student-ID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return models.Actor{}, errors.NewBadRequestError("missing or invalid X-Student-ID header")
	}

	role := models.Role(r.Header.Get("X-Role"))
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
	case "":
		role = models.RoleStudent
	default:
		return models.Actor{}, errors.NewBadRequestError("invalid X-Role header")
	}
	return models.Actor{ID: id, Role: role}, nil
}

// requireStudentAccess resolves the actor and checks it may read data
// belonging to the student in the URL.
func requireStudentAccess(r *http.Request) (int64, error) {
	studentID, err := pathID(r, "studentID")
	if err != nil {
		return 0, err
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		return 0, err
	}
	if !actor.CanActOn(studentID) {
		return 0, errors.NewForbiddenError("cannot access another student's data")
	}
	return studentID, nil
}
