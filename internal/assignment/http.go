package assignment

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/HaroldK3/Student-Tracker/common/httputil"
	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/admin/assign", h.AssignInstructor)
	router.Get("/admin/assignments", h.ListAssignments)
	router.Get("/student/internship/{id}", h.GetInternship)
}

func (h *Handler) AssignInstructor(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, httputil.ValidationMessage(err))
		return
	}

	h.logger.InfoContext(r.Context(), "assigning instructor", "student_id", req.StudentID, "user_id", req.UserID)
	a, err := h.service.AssignInstructor(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, a)
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	if raw := r.URL.Query().Get("instructor_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			httputil.RespondWithError(w, http.StatusBadRequest, "Invalid instructor ID")
			return
		}
		filter.InstructorID = id
	}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.RespondWithError(w, http.StatusBadRequest, "active must be true or false")
			return
		}
		filter.ActiveOnly = active
	}

	assignments, err := h.service.ListAssignments(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, assignments)
}

func (h *Handler) GetInternship(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	internship, err := h.service.GetInternship(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, internship)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, ErrInstructorNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Instructor not found")
	case errors.Is(err, position.ErrPositionNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Position not found")
	case errors.Is(err, ErrAssignmentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "No active internship assignment")
	case errors.Is(err, ErrAlreadyAssigned):
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "assignment request failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
