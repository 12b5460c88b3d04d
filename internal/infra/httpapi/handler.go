package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"hr_evaluation_reminder/internal/app"
	"hr_evaluation_reminder/internal/domain/separation"

	"github.com/sirupsen/logrus"
)

// ReminderOperations is the reminder service as seen by the HTTP surface.
type ReminderOperations interface {
	Employees(ctx context.Context) ([]app.EmployeeView, error)
	Preview(ctx context.Context) (*app.ReminderPreview, error)
	Run(ctx context.Context) (*app.RunSummary, error)
	SentToday(ctx context.Context) (*app.SentSummary, error)
}

// SeparationOperations is the separation service as seen by the HTTP surface.
type SeparationOperations interface {
	List(ctx context.Context, filter string) (*separation.Plan, error)
	Notify(ctx context.Context, filter string) (*app.SeparationSummary, error)
}

type Handler struct {
	reminders   ReminderOperations
	separations SeparationOperations
	logger      *logrus.Entry
}

func NewHandler(reminders ReminderOperations, separations SeparationOperations, baseLogger *logrus.Entry) *Handler {
	return &Handler{
		reminders:   reminders,
		separations: separations,
		logger:      baseLogger.WithField("component", "httpapi"),
	}
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, app.ErrCycleInProgress):
		return http.StatusConflict
	case errors.Is(err, separation.ErrInvalidFilter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	entry := h.logger.WithError(err).WithFields(logrus.Fields{"path": r.URL.Path, "status": status})
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Warn(msg)
	}
	respondError(w, status, err.Error())
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	views, err := h.reminders.Employees(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list employees")
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) PreviewReminders(w http.ResponseWriter, r *http.Request) {
	preview, err := h.reminders.Preview(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to build reminder preview")
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

func (h *Handler) SendReminders(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reminders.Run(r.Context())
	if err != nil {
		h.fail(w, r, err, "Reminder cycle failed")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) SentToday(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reminders.SentToday(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to read send log")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func separationFilter(r *http.Request) string {
	if f := r.URL.Query().Get("filter"); f != "" {
		return f
	}
	return "all"
}

func (h *Handler) ListSeparations(w http.ResponseWriter, r *http.Request) {
	plan, err := h.separations.List(r.Context(), separationFilter(r))
	if err != nil {
		h.fail(w, r, err, "Failed to list separated employees")
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (h *Handler) NotifySeparations(w http.ResponseWriter, r *http.Request) {
	summary, err := h.separations.Notify(r.Context(), separationFilter(r))
	if err != nil {
		h.fail(w, r, err, "Vendor notification failed")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
