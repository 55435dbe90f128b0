// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/activity-signup/internal/logger"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/query"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup/internal/service"
)

// ActivityHandler holds all HTTP handlers for the activity API.
type ActivityHandler struct {
	svc *service.ActivityService
	log *logger.Logger
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Detail: msg})
}

// activityName returns the decoded {name} path parameter.
// chi matches on RawPath when the request path carries escaped slashes.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(name); err == nil {
			return decoded
		}
	}
	return name
}

// emailParam returns the email query parameter. An empty value is a valid
// participant; only a missing parameter is rejected.
func emailParam(r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has("email") {
		return "", false
	}
	return q.Get("email"), true
}

// writeMutationError maps service errors onto status codes.
func (h *ActivityHandler) writeMutationError(w http.ResponseWriter, name string, err error) {
	h.log.Debug("mutation rejected", "activity", name, "error", err)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Activity not found")
	case errors.Is(err, repository.ErrAlreadyRegistered):
		writeError(w, http.StatusBadRequest, "Student is already signed up")
	case errors.Is(err, repository.ErrNotRegistered):
		writeError(w, http.StatusBadRequest, "Student is not signed up for this activity")
	default:
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Root handles GET /
// Redirects browsers to the static landing page.
func Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// ListActivities handles GET /activities?category=&sort=&search=
// Returns a JSON object keyed by activity name, in query order.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := query.Params{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     query.ParseSortKey(q.Get("sort")),
	}

	activities, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, newActivityIndex(activities))
}

// Signup handles POST /activities/{name}/signup?email=
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email, ok := emailParam(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}

	if err := h.svc.Signup(r.Context(), name, email); err != nil {
		h.writeMutationError(w, name, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// Unregister handles DELETE /activities/{name}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email, ok := emailParam(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}

	if err := h.svc.Unregister(r.Context(), name, email); err != nil {
		h.writeMutationError(w, name, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}
