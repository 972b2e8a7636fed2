package feedback

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/HaroldK3/Student-Tracker/common/httputil"
	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/student"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/teacher/feedback/student/{id}", h.StudentFeedback)
	router.Post("/teacher/feedback/position/{id}", h.PositionFeedback)
	router.Get("/student/feedback/{id}", h.ListOwn)
}

func (h *Handler) StudentFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}
	text, ok := h.feedbackText(w, r)
	if !ok {
		return
	}

	fb, err := h.service.ForStudent(r.Context(), id, text)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Feedback for student saved successfully.",
		"feedback": fb,
	})
}

func (h *Handler) PositionFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid position ID")
		return
	}
	text, ok := h.feedbackText(w, r)
	if !ok {
		return
	}

	fb, err := h.service.ForPosition(r.Context(), id, text)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Feedback for position saved successfully.",
		"feedback": fb,
	})
}

func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	items, err := h.service.ListForStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, items)
}

// feedbackText reads ?feedback= first and falls back to {"FeedbackText": ...}.
func (h *Handler) feedbackText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if text := r.URL.Query().Get("feedback"); text != "" {
		return text, true
	}
	if r.ContentLength == 0 {
		return "", true
	}

	var req CreateFeedbackRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	return req.FeedbackText, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, position.ErrPositionNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Position not found")
	case errors.Is(err, ErrEmptyFeedback):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "feedback request failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
