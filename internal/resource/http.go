package resource

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/HaroldK3/Student-Tracker/common/httputil"

	"github.com/go-chi/chi/v5"
)

const formField = "file"

type Handler struct {
	service        Service
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewHandler(service Service, logger *slog.Logger, maxUploadMB int64) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Handler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadMB << 20,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/teacher/upload_resource", h.Upload)
	router.Get("/teacher/resources", h.List)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formField)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	res, err := h.service.Upload(r.Context(), Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		if errors.Is(err, ErrEmptyFile) {
			httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "resource upload failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.InfoContext(r.Context(), "resource uploaded", "resource_id", res.ResourceID, "size", res.SizeBytes)
	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Resource uploaded successfully.",
		"resource": res,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list resources failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, items)
}
