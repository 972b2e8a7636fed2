package attendance

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/HaroldK3/Student-Tracker/common/httputil"
	"github.com/HaroldK3/Student-Tracker/internal/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/attendance/checkin", h.CheckIn)
	router.Put("/attendance/checkout/{id}", h.CheckOut)
	router.Put("/attendance/approve/{id}", h.Approve)
	router.Get("/attendance/student/{id}", h.ListForStudent)

	router.Get("/teacher/time_punch/{student_id}", h.TimePunches)
	router.Get("/teacher/time_clock", h.TimeClock)
	router.Get("/teacher/attendance/{date}", h.Sheet)
	router.Post("/teacher/attendance", h.SubmitSheet)
	router.Put("/teacher/attendance/{id}", h.UpdateMark)
	router.Get("/teacher/check_in/{student_id}", h.CheckIns)
	router.Put("/teacher/check_in/{id}/approve", h.ApproveCheckIn)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, httputil.ValidationMessage(err))
		return
	}

	h.logger.InfoContext(r.Context(), "student check-in", "student_id", req.StudentID)
	a, err := h.service.CheckIn(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordCheckIn(r.Context(), a.Lat != nil)

	httputil.RespondWithJSON(w, http.StatusCreated, a)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid attendance ID")
		return
	}

	a, err := h.service.CheckOut(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordCheckOut(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, a)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid attendance ID")
		return
	}

	a, err := h.service.Approve(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordApproval(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, a)
}

func (h *Handler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	records, err := h.service.ListForStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, records)
}

func (h *Handler) TimePunches(w http.ResponseWriter, r *http.Request) {
	h.listForStudentAs(w, r, "punches")
}

func (h *Handler) CheckIns(w http.ResponseWriter, r *http.Request) {
	h.listForStudentAs(w, r, "checkins")
}

func (h *Handler) listForStudentAs(w http.ResponseWriter, r *http.Request, key string) {
	id, err := httputil.URLParamID(r, "student_id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	records, err := h.service.ListForStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{key: records})
}

func (h *Handler) TimeClock(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.OpenIntervals(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"active_punches": records})
}

func (h *Handler) Sheet(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.SheetForDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"attendance": records})
}

func (h *Handler) SubmitSheet(w http.ResponseWriter, r *http.Request) {
	var req SheetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, httputil.ValidationMessage(err))
		return
	}

	h.logger.InfoContext(r.Context(), "saving attendance sheet", "date", req.Date, "entries", len(req.Students))
	records, err := h.service.SubmitSheet(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Attendance sheet saved successfully.",
		"attendance": records,
	})
}

// UpdateMark accepts the new mark as ?status= or as {"Status": ...}.
func (h *Handler) UpdateMark(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid attendance ID")
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" && r.ContentLength != 0 {
		var req MarkRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		status = req.Status
	}

	a, err := h.service.UpdateMark(r.Context(), id, status)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    fmt.Sprintf("Attendance record %d updated.", id),
		"attendance": a,
	})
}

func (h *Handler) ApproveCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamID(r, "id")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid check-in ID")
		return
	}

	a, err := h.service.Approve(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordApproval(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    fmt.Sprintf("Check-in %d approved.", id),
		"attendance": a,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, ErrAttendanceNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Attendance record not found")
	case errors.Is(err, ErrAlreadyCheckedIn), errors.Is(err, ErrAlreadyCheckedOut):
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCoordinates),
		errors.Is(err, ErrInvalidMark),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrDuplicateSheetEntry):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "attendance request failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
